package models

import "time"

// Question is a single-best-answer multiple choice question. Once it is part
// of a published exam its content is never edited through the exam; results
// snapshot the text they were graded against.
type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Prompt      string    `gorm:"type:text;not null" json:"prompt"`
	OptionA     string    `gorm:"type:text;not null" json:"option_a"`
	OptionB     string    `gorm:"type:text;not null" json:"option_b"`
	OptionC     string    `gorm:"type:text;not null" json:"option_c"`
	OptionD     string    `gorm:"type:text;not null" json:"option_d"`
	Answer      string    `gorm:"size:32;not null" json:"answer"`
	Explanation string    `gorm:"type:text" json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
