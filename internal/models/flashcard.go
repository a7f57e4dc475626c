package models

// DefaultTopic is assigned to flashcards whose topic is empty.
const DefaultTopic = "General"

// MediaAttachment is a binary asset attached to one side of a flashcard.
// Data holds the payload base64-encoded so it survives text-oriented
// storage and transport; decode it with the media package before packaging.
type MediaAttachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type Flashcard struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`

	// Question-side media.
	FrontImage *MediaAttachment `json:"frontImage,omitempty"`
	FrontAudio *MediaAttachment `json:"frontAudio,omitempty"`
	// Answer-side media.
	Image *MediaAttachment `json:"image,omitempty"`
	Audio *MediaAttachment `json:"audio,omitempty"`
}

// TopicOrDefault returns the card's topic, falling back to DefaultTopic.
func (f Flashcard) TopicOrDefault() string {
	if f.Topic == "" {
		return DefaultTopic
	}
	return f.Topic
}

// HasMedia reports whether any side of the card carries an attachment.
func (f Flashcard) HasMedia() bool {
	return f.FrontImage != nil || f.FrontAudio != nil || f.Image != nil || f.Audio != nil
}
