package media_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeyer/ankiforge/internal/media"
	"github.com/lmeyer/ankiforge/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0x10}
	att := media.Encode("diagram.png", "image/png", payload)

	assert.Equal(t, "diagram.png", att.Name)
	assert.Equal(t, "image/png", att.Type)

	decoded, err := media.Decode(att)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecode_DataURLPrefix(t *testing.T) {
	payload := []byte("hello")
	att := models.MediaAttachment{
		Name: "hello.mp3",
		Type: "audio/mp3",
		Data: "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(payload),
	}
	decoded, err := media.Decode(att)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecode_InvalidBase64(t *testing.T) {
	_, err := media.Decode(models.MediaAttachment{Name: "x", Data: "not base64!!!"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestExt(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpeg"},
		{"audio/mp3", "mp3"},
		{"audio/mpeg", "mpeg"},
		{"garbage", "bin"},
		{"trailing/", "bin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, media.Ext(tt.mime), tt.mime)
	}
}

func TestNamer_UniqueAcrossCollidingIndices(t *testing.T) {
	var n media.Namer
	seen := map[string]bool{}
	// Same topic/card indices repeated; the counter keeps names distinct.
	for i := 0; i < 10; i++ {
		name := n.Next(media.SideFront, media.KindImage, 0, 0, "image/png")
		assert.False(t, seen[name], "duplicate filename %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 10)
}

func TestNamer_Format(t *testing.T) {
	var n media.Namer
	assert.Equal(t, "front_image_2_5_0.png", n.Next(media.SideFront, media.KindImage, 2, 5, "image/png"))
	assert.Equal(t, "back_audio_2_5_1.mp3", n.Next(media.SideBack, media.KindAudio, 2, 5, "audio/mp3"))
}

func TestMarkupHelpers(t *testing.T) {
	assert.Equal(t, `<br><img src="a.png">`, media.ImageHTML("a.png"))
	assert.Equal(t, "<br>[sound:a.mp3]", media.SoundHTML("a.mp3"))
}
