package dto

import (
	"encoding/json"
	"time"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// SubmissionRequest carries a student's answers for one exam. An empty
// answer list is a valid submission; every question scores as unanswered.
type SubmissionRequest struct {
	StudentEmail string            `json:"student_email" validate:"required,email"`
	Answers      []SubmittedAnswer `json:"answers"`
}

// ExamResultResponse is the serialized scored attempt.
type ExamResultResponse struct {
	ID           uint           `json:"id"`
	ExamID       uint           `json:"exam_id"`
	StudentEmail string         `json:"student_email"`
	Status       string         `json:"status"`
	CorrectCount int            `json:"correct_count"`
	WrongCount   int            `json:"wrong_count"`
	Total        int            `json:"total"`
	Percentage   float64        `json:"percentage"`
	Answers      []AnswerRecord `json:"answers"`
	CompletedAt  time.Time      `json:"completed_at"`
}

// NewExamResultResponse converts a model into a DTO, decoding the stored
// answer snapshots.
func NewExamResultResponse(model models.ExamResult) ExamResultResponse {
	var records []AnswerRecord
	if len(model.Answers) > 0 {
		_ = json.Unmarshal(model.Answers, &records)
	}

	return ExamResultResponse{
		ID:           model.ID,
		ExamID:       model.ExamID,
		StudentEmail: model.StudentEmail,
		Status:       model.Status,
		CorrectCount: model.CorrectCount,
		WrongCount:   model.WrongCount,
		Total:        model.Total,
		Percentage:   model.Percentage,
		Answers:      records,
		CompletedAt:  model.CompletedAt,
	}
}
