// Package media converts flashcard attachments between their base64
// transport form and raw bytes, and generates the collision-free filenames
// used inside a package archive.
package media

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/lmeyer/ankiforge/internal/models"
)

var dataURLPrefix = regexp.MustCompile(`^data:[^;]+;base64,`)

// Encode wraps raw bytes as an attachment. The payload is base64-encoded so
// it can travel through text-oriented storage without loss.
func Encode(name, mimeType string, data []byte) models.MediaAttachment {
	return models.MediaAttachment{
		Name: name,
		Type: mimeType,
		Data: base64.StdEncoding.EncodeToString(data),
	}
}

// Decode recovers the raw bytes of an attachment. A data-URL prefix
// (`data:image/png;base64,...`) is stripped if present; browser file readers
// produce that form.
func Decode(att models.MediaAttachment) ([]byte, error) {
	payload := dataURLPrefix.ReplaceAllString(att.Data, "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode media %q: %w", att.Name, err)
	}
	return data, nil
}

// Ext derives an archive filename extension from a MIME type
// ("image/png" -> "png"). Unrecognized types fall back to "bin".
func Ext(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx >= 0 && idx+1 < len(mimeType) {
		return mimeType[idx+1:]
	}
	return "bin"
}

// ImageHTML renders the markup appended to a field for an embedded image.
func ImageHTML(filename string) string {
	return fmt.Sprintf(`<br><img src="%s">`, filename)
}

// SoundHTML renders the Anki sound tag appended to a field for audio.
func SoundHTML(filename string) string {
	return fmt.Sprintf("<br>[sound:%s]", filename)
}
