package flashcard

import (
	"math"

	"github.com/lmeyer/ankiforge/internal/models"
)

// Statistics summarizes a record set for UI reporting.
type Statistics struct {
	TotalCards            int            `json:"total_cards"`
	Topics                []string       `json:"topics"`
	TopicCounts           map[string]int `json:"topic_counts"`
	AverageQuestionLength int            `json:"average_question_length"`
	AverageAnswerLength   int            `json:"average_answer_length"`
}

// Stats computes aggregate statistics. Topics are listed in first-seen
// order; averages are rounded to the nearest integer. An empty set yields
// zeroed statistics, not an error.
func Stats(cards []models.Flashcard) Statistics {
	stats := Statistics{Topics: []string{}, TopicCounts: map[string]int{}}
	if len(cards) == 0 {
		return stats
	}

	var questionLen, answerLen int
	for _, card := range cards {
		topic := card.TopicOrDefault()
		if _, seen := stats.TopicCounts[topic]; !seen {
			stats.Topics = append(stats.Topics, topic)
		}
		stats.TopicCounts[topic]++
		questionLen += len(card.Question)
		answerLen += len(card.Answer)
	}

	stats.TotalCards = len(cards)
	stats.AverageQuestionLength = int(math.Round(float64(questionLen) / float64(len(cards))))
	stats.AverageAnswerLength = int(math.Round(float64(answerLen) / float64(len(cards))))
	return stats
}
