package dto

// NotAnswered is the sentinel recorded for questions the student skipped.
const NotAnswered = "not answered"

// SubmittedAnswer is one (question, selected option) pair from a student.
// The selected option may be a verbose label ("OptionC") or a bare letter.
type SubmittedAnswer struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// AnswerRecord is the per-question evaluation outcome. Question text and the
// correct answer are snapshotted so later edits to a question never rewrite
// history, and the student's answer is kept in its raw submitted form.
type AnswerRecord struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// EvaluationResult aggregates the outcome of one submission against one exam.
type EvaluationResult struct {
	Records      []AnswerRecord `json:"records"`
	CorrectCount int            `json:"correct_count"`
	WrongCount   int            `json:"wrong_count"`
	Total        int            `json:"total"`
	Percentage   float64        `json:"percentage"`
}
