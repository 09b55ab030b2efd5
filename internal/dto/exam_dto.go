package dto

import (
	"time"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// ExamCreateRequest describes the payload for creating a new exam.
type ExamCreateRequest struct {
	Name            string `json:"name" validate:"required,min=3"`
	StartTime       string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int    `json:"duration_minutes" validate:"required"`
	CreatedBy       string `json:"created_by" validate:"omitempty,email"`
}

// Window parses the RFC3339 start and end times.
func (r ExamCreateRequest) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ExamUpdateRequest describes a partial exam update, including the
// publish/unpublish transition.
type ExamUpdateRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=3"`
	StartTime       *string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         *string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes *int    `json:"duration_minutes"`
	Published       *bool   `json:"published"`
}

// ExamListRequest narrows exam listings.
type ExamListRequest struct {
	Published *bool
	Search    string
	Page      int
	PageSize  int
}

// ExamResponse is the serialized exam returned to API clients.
type ExamResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Published       bool      `json:"published"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExamListResponse wraps a paged exam listing.
type ExamListResponse struct {
	Items []ExamResponse `json:"items"`
	Total int64          `json:"total"`
}

// NewExamResponse converts a model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	return ExamResponse{
		ID:              model.ID,
		Name:            model.Name,
		StartTime:       model.StartTime,
		EndTime:         model.EndTime,
		DurationMinutes: model.DurationMinutes,
		Published:       model.Published,
		CreatedBy:       model.CreatedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewExamResponseSlice converts a slice of models into DTOs.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}

	return responses
}
