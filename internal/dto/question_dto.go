package dto

import "github.com/brightpath-labs/brightpath-api/internal/models"

// QuestionResponse is the student-facing question view. It deliberately
// omits the answer key and explanation.
type QuestionResponse struct {
	ID      uint   `json:"id"`
	Prompt  string `json:"prompt"`
	OptionA string `json:"option_a"`
	OptionB string `json:"option_b"`
	OptionC string `json:"option_c"`
	OptionD string `json:"option_d"`
}

// NewQuestionResponseSlice converts questions into their student view.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, QuestionResponse{
			ID:      question.ID,
			Prompt:  question.Prompt,
			OptionA: question.OptionA,
			OptionB: question.OptionB,
			OptionC: question.OptionC,
			OptionD: question.OptionD,
		})
	}

	return responses
}

// BankImportResponse summarizes a question bank import.
type BankImportResponse struct {
	ExamID   uint `json:"exam_id"`
	Imported int  `json:"imported"`
}
