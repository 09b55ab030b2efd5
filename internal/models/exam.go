package models

import "time"

// Exam groups an ordered set of questions behind a time window. Names are
// unique case-insensitively. A question may belong to several exams.
type Exam struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         time.Time  `gorm:"not null" json:"end_time"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	Published       bool       `gorm:"not null;default:false" json:"published"`
	CreatedBy       string     `gorm:"size:255" json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Questions       []Question `gorm:"many2many:exam_questions;" json:"questions,omitempty"`
}

// HasStarted reports whether the exam window has opened at the reference time.
func (e Exam) HasStarted(reference time.Time) bool {
	return !reference.Before(e.StartTime)
}

// IsOpen reports whether submissions are accepted at the reference time.
func (e Exam) IsOpen(reference time.Time) bool {
	return e.Published && e.HasStarted(reference) && !reference.After(e.EndTime)
}
