// Package flashcard holds the domain rules for flashcard records:
// pre-flight validation and aggregate statistics.
package flashcard

import (
	"fmt"
	"strings"

	"github.com/lmeyer/ankiforge/internal/models"
)

// Soft limits. Exceeding them produces warnings, not errors; Anki renders
// long fields fine but the cards become useless for review.
const (
	MaxQuestionLength = 500
	MaxAnswerLength   = 2000
)

// ValidationResult reports itemized problems with a record set. Messages
// refer to cards by 1-based position so they can be shown to users verbatim.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks a record set before package building. Errors make the set
// unbuildable; warnings are advisory. An empty set is always invalid.
func Validate(cards []models.Flashcard) ValidationResult {
	result := ValidationResult{Errors: []string{}, Warnings: []string{}}

	if len(cards) == 0 {
		result.Errors = append(result.Errors, "no flashcard data provided")
		return result
	}

	for i, card := range cards {
		n := i + 1
		if strings.TrimSpace(card.Question) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("card %d: question is required", n))
		}
		if strings.TrimSpace(card.Answer) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("card %d: answer is required", n))
		}
		if strings.TrimSpace(card.Topic) == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("card %d: topic is empty, will use %q", n, models.DefaultTopic))
		}
		if len(card.Question) > MaxQuestionLength {
			result.Warnings = append(result.Warnings, fmt.Sprintf("card %d: question is very long (%d characters)", n, len(card.Question)))
		}
		if len(card.Answer) > MaxAnswerLength {
			result.Warnings = append(result.Warnings, fmt.Sprintf("card %d: answer is very long (%d characters)", n, len(card.Answer)))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
