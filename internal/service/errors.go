package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExamNotFound indicates an exam could not be found.
	ErrExamNotFound = errors.New("exam not found")
	// ErrExamNameTaken indicates another exam already uses the name (names are compared case-insensitively).
	ErrExamNameTaken = errors.New("exam name already in use")
	// ErrExamClosed indicates the exam is unpublished or outside its time window.
	ErrExamClosed = errors.New("exam is not open for submissions")
	// ErrAlreadyCompleted indicates a completed result already exists for the
	// (exam, student) pair. Callers should treat it as "already done", not retry.
	ErrAlreadyCompleted = errors.New("exam already completed by this student")
	// ErrResultNotFound indicates no stored result for the (exam, student) pair.
	ErrResultNotFound = errors.New("exam result not found")
	// ErrEmptyBank indicates the question bank input held no content at all.
	ErrEmptyBank = errors.New("question bank is empty")
)

// Lifecycle rule names carried by ValidationError.
const (
	RuleDates      = "dates"
	RuleDuration   = "duration"
	RuleVisibility = "visibility"
)

// ValidationError reports one violated exam lifecycle rule. Callers branch
// on Rule rather than the message text.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("exam validation failed (%s): %s", e.Rule, e.Message)
}

// BankFormatError reports a malformed question bank header, naming the
// schema the caller must supply.
type BankFormatError struct {
	Expected []string
}

func (e *BankFormatError) Error() string {
	return fmt.Sprintf("malformed question bank: header must be %q", strings.Join(e.Expected, ","))
}
