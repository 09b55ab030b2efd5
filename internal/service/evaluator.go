package service

import (
	"strings"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// Evaluate grades the submitted answers against the exam's questions. It is
// pure: output order follows the question list, submissions for unknown
// question ids are ignored, and a missing submission is recorded as
// dto.NotAnswered and counted wrong. Percentage is 0 for an empty question
// list. Records carry the raw submitted value; only the correctness check
// uses the normalized form.
func Evaluate(questions []models.Question, submitted []dto.SubmittedAnswer) dto.EvaluationResult {
	selected := make(map[uint]string, len(submitted))
	for _, answer := range submitted {
		option := strings.TrimSpace(answer.SelectedOption)
		if answer.QuestionID == 0 || option == "" {
			continue
		}
		selected[answer.QuestionID] = option
	}

	result := dto.EvaluationResult{
		Records: make([]dto.AnswerRecord, 0, len(questions)),
		Total:   len(questions),
	}

	for _, question := range questions {
		raw, answered := selected[question.ID]

		record := dto.AnswerRecord{
			QuestionID:    question.ID,
			Question:      question.Prompt,
			StudentAnswer: dto.NotAnswered,
			CorrectAnswer: question.Answer,
			Explanation:   question.Explanation,
		}

		if answered {
			record.StudentAnswer = raw
			record.IsCorrect = strings.EqualFold(normalizeOption(raw), normalizeOption(question.Answer))
		}

		if record.IsCorrect {
			result.CorrectCount++
		}

		result.Records = append(result.Records, record)
	}

	result.WrongCount = result.Total - result.CorrectCount
	if result.Total > 0 {
		result.Percentage = float64(result.CorrectCount) * 100 / float64(result.Total)
	}

	return result
}

// normalizeOption maps the verbose option labels to their bare letter so
// "OptionC" and "C" compare equal. Any other value passes through unchanged.
func normalizeOption(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "optiona":
		return "A"
	case "optionb":
		return "B"
	case "optionc":
		return "C"
	case "optiond":
		return "D"
	default:
		return trimmed
	}
}
