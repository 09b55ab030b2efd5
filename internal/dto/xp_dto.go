package dto

// XpAwardRequest triggers a background XP award for a non-exam action.
type XpAwardRequest struct {
	StudentEmail string `json:"student_email" validate:"required,email"`
	ReferenceID  uint   `json:"reference_id" validate:"required"`
}
