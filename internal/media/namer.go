package media

import "fmt"

// Attachment sides and kinds, used as filename segments.
const (
	SideFront = "front"
	SideBack  = "back"

	KindImage = "image"
	KindAudio = "audio"
)

// Namer hands out archive-unique filenames for one package build. The
// counter never repeats within a build, so names stay distinct even when
// topic and card indices collide across merged sources. Namers are scoped
// to a single build and must not be shared across builds.
type Namer struct {
	counter int
}

// Next returns the filename for the next attachment:
// {side}_{kind}_{topicIdx}_{cardIdx}_{counter}.{ext}.
func (n *Namer) Next(side, kind string, topicIdx, cardIdx int, mimeType string) string {
	name := fmt.Sprintf("%s_%s_%d_%d_%d.%s", side, kind, topicIdx, cardIdx, n.counter, Ext(mimeType))
	n.counter++
	return name
}
