package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// ExamResultStatusInProgress marks a result row for an attempt that has not been scored.
	ExamResultStatusInProgress = "in-progress"
	// ExamResultStatusCompleted marks a scored, final result.
	ExamResultStatusCompleted = "completed"
)

// ExamResult stores the scored outcome of one student's attempt. The unique
// index on (exam_id, student_email) makes the completion insert a
// compare-and-insert: a second completed attempt for the same pair fails at
// the database rather than racing a read-then-write check.
type ExamResult struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ExamID       uint           `gorm:"not null;uniqueIndex:idx_exam_student" json:"exam_id"`
	StudentEmail string         `gorm:"size:255;not null;uniqueIndex:idx_exam_student" json:"student_email"`
	Status       string         `gorm:"size:32;not null" json:"status"`
	CorrectCount int            `gorm:"not null" json:"correct_count"`
	WrongCount   int            `gorm:"not null" json:"wrong_count"`
	Total        int            `gorm:"not null" json:"total"`
	Percentage   float64        `gorm:"not null" json:"percentage"`
	Answers      datatypes.JSON `gorm:"type:json" json:"answers"`
	CompletedAt  time.Time      `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Exam         Exam           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsCompleted reports whether the result is final.
func (r ExamResult) IsCompleted() bool {
	return r.Status == ExamResultStatusCompleted
}
