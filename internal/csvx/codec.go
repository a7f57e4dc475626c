// Package csvx implements the three-column Topic,Question,Answer dialect
// produced by chat assistants. It is deliberately more tolerant than
// encoding/csv: fields are trimmed, short lines are skipped rather than
// rejected, and blocks may arrive with literal `\n` sequences instead of
// real newlines.
package csvx

import (
	"strings"

	"github.com/lmeyer/ankiforge/internal/models"
)

// Header is the optional first row of a serialized block.
const Header = "Topic,Question,Answer"

// ParseLine splits a single dialect line into fields. Double quotes toggle
// quoting; a doubled quote inside a quoted field emits a literal quote.
// An unterminated quote is not an error: the scanner simply follows the
// toggle rule to the end of the line.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && !inQuotes:
			inQuotes = true
		case c == '"' && inQuotes:
			if i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// SerializeRow renders fields as a quoted dialect row, doubling any
// embedded quotes.
func SerializeRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// SplitLines splits a block on real newlines, falling back to literal
// two-character `\n` sequences when real-newline splitting yields at most
// one line. Upstream sources emit either form depending on how the text was
// transported; both must index lines identically, so every consumer of a
// stored block goes through this one splitter.
func SplitLines(block string) []string {
	lines := nonEmpty(strings.Split(block, "\n"))
	if len(lines) <= 1 {
		if alt := nonEmpty(strings.Split(block, `\n`)); len(alt) > 1 {
			return alt
		}
	}
	return lines
}

func nonEmpty(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// IsHeader reports whether a line looks like the dialect header row.
func IsHeader(line string) bool {
	return strings.Contains(strings.ToLower(line), "topic")
}

// ParseRecords parses a whole block into flashcards. A leading header row is
// skipped, lines with fewer than three fields are ignored, and any fields
// beyond the third are folded back into the answer (answers may legally
// contain unquoted commas).
func ParseRecords(block string) []models.Flashcard {
	var cards []models.Flashcard
	lines := SplitLines(block)
	for i, line := range lines {
		if i == 0 && IsHeader(line) {
			continue
		}
		parts := ParseLine(line)
		if len(parts) < 3 {
			continue
		}
		cards = append(cards, models.Flashcard{
			Topic:    strings.TrimSpace(parts[0]),
			Question: strings.TrimSpace(parts[1]),
			Answer:   strings.TrimSpace(strings.Join(parts[2:], ",")),
		})
	}
	return cards
}

// WriteRecords serializes flashcards back into a dialect block. The header
// row is included when withHeader is set; rows are joined with real newlines.
func WriteRecords(cards []models.Flashcard, withHeader bool) string {
	var rows []string
	if withHeader {
		rows = append(rows, Header)
	}
	for _, c := range cards {
		rows = append(rows, SerializeRow([]string{c.Topic, c.Question, c.Answer}))
	}
	return strings.Join(rows, "\n")
}
