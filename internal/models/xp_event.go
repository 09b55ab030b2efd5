package models

import "time"

const (
	// XpEventExamCompleted is awarded once per completed exam.
	XpEventExamCompleted = "exam-completed"
	// XpEventQuestionAnswered is the per-correct-answer bonus.
	XpEventQuestionAnswered = "question-answered"
	// XpEventVideoWatched is awarded when a student finishes a video.
	XpEventVideoWatched = "video-watched"
	// XpEventCourseCompleted is awarded when a student finishes a course.
	XpEventCourseCompleted = "course-completed"
)

// XpEvent is one append-only entry in the experience ledger. Rows are never
// updated or deleted; (email, kind, reference_id) is the idempotency key
// checked before every emission.
type XpEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"size:255;not null;index:idx_xp_identity" json:"email"`
	Kind        string    `gorm:"size:64;not null;index:idx_xp_identity" json:"kind"`
	ReferenceID uint      `gorm:"index:idx_xp_identity" json:"reference_id"`
	Points      int       `gorm:"not null" json:"points"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
