package anki

import (
	"regexp"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeName makes a deck name safe for use as a download filename by
// replacing every non-alphanumeric character with an underscore.
func SanitizeName(name string) string {
	if name == "" {
		return "flashcards"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// ArchiveFilename returns the download name for a package. With a zero
// time: {name}.apkg; otherwise {name}_{YYYY-MM-DD}.apkg.
func ArchiveFilename(deckName string, at time.Time) string {
	base := SanitizeName(deckName)
	if at.IsZero() {
		return base + ".apkg"
	}
	return base + "_" + at.Format("2006-01-02") + ".apkg"
}

// CSVFilename returns the download name for the CSV fallback export.
func CSVFilename(deckName string) string {
	return SanitizeName(deckName) + ".csv"
}
