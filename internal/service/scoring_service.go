package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/observability"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

// ScoringPoints configures how many points each scoring action awards.
type ScoringPoints struct {
	ExamCompleted int
	CorrectAnswer int
}

// ScoringService evaluates submissions and records them exactly once per
// (exam, student) pair, appending XP events to the ledger.
type ScoringService interface {
	SubmitExam(ctx context.Context, examID uint, email string, answers []dto.SubmittedAnswer) (models.ExamResult, error)
	RecordScore(ctx context.Context, examID uint, email string, evaluation dto.EvaluationResult) (models.ExamResult, error)
	GetResult(ctx context.Context, examID uint, email string) (models.ExamResult, error)
}

type scoringService struct {
	exams     repository.ExamRepository
	questions repository.QuestionRepository
	results   repository.ExamResultRepository
	events    repository.XpEventRepository
	students  repository.StudentRepository
	points    ScoringPoints
	logger    zerolog.Logger
	now       func() time.Time
}

// NewScoringService constructs a ScoringService instance.
func NewScoringService(exams repository.ExamRepository, questions repository.QuestionRepository, results repository.ExamResultRepository, events repository.XpEventRepository, students repository.StudentRepository, points ScoringPoints, logger zerolog.Logger) ScoringService {
	if points.ExamCompleted <= 0 {
		points.ExamCompleted = 50
	}
	if points.CorrectAnswer < 0 {
		points.CorrectAnswer = 0
	}
	return &scoringService{
		exams:     exams,
		questions: questions,
		results:   results,
		events:    events,
		students:  students,
		points:    points,
		logger:    logger.With().Str("component", "scoring_service").Logger(),
		now:       time.Now,
	}
}

// SubmitExam grades the answers against the exam's question list and records
// the outcome. The exam must be published and inside its time window.
func (s *scoringService) SubmitExam(ctx context.Context, examID uint, email string, answers []dto.SubmittedAnswer) (models.ExamResult, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ExamResult{}, ErrExamNotFound
		}
		return models.ExamResult{}, err
	}

	if !exam.IsOpen(s.now()) {
		return models.ExamResult{}, ErrExamClosed
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return models.ExamResult{}, err
	}

	evaluation := Evaluate(questions, answers)

	return s.RecordScore(ctx, examID, email, evaluation)
}

// RecordScore persists the evaluation exactly once and appends XP events.
// The result insert and the event emission are guarded independently: a
// duplicate result insert still runs the idempotent emission before
// returning ErrAlreadyCompleted, so a retry that failed between the two
// phases finishes the second phase instead of short-circuiting. On that
// path the events derive from the stored result's answer snapshot, never
// from the rejected submission.
func (s *scoringService) RecordScore(ctx context.Context, examID uint, email string, evaluation dto.EvaluationResult) (models.ExamResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.ensureStudent(ctx, email); err != nil {
		return models.ExamResult{}, err
	}

	answers, err := json.Marshal(evaluation.Records)
	if err != nil {
		return models.ExamResult{}, err
	}

	result := models.ExamResult{
		ExamID:       examID,
		StudentEmail: email,
		Status:       models.ExamResultStatusCompleted,
		CorrectCount: evaluation.CorrectCount,
		WrongCount:   evaluation.WrongCount,
		Total:        evaluation.Total,
		Percentage:   evaluation.Percentage,
		Answers:      answers,
		CompletedAt:  s.now(),
	}

	alreadyCompleted := false
	if err := s.results.Create(ctx, &result); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ExamResult{}, err
		}
		alreadyCompleted = true

		stored, err := s.results.GetByExamAndStudent(ctx, examID, email)
		if err != nil {
			return models.ExamResult{}, err
		}
		evaluation, err = storedEvaluation(stored)
		if err != nil {
			return models.ExamResult{}, err
		}
	}

	if err := s.emitScoringEvents(ctx, examID, email, evaluation); err != nil {
		return models.ExamResult{}, err
	}

	if alreadyCompleted {
		observability.ScoringRequests().WithLabelValues("conflict").Inc()
		return models.ExamResult{}, ErrAlreadyCompleted
	}

	observability.ScoringRequests().WithLabelValues("recorded").Inc()
	s.logger.Info().
		Uint("exam_id", examID).
		Str("student", email).
		Int("correct", evaluation.CorrectCount).
		Int("total", evaluation.Total).
		Msg("exam result recorded")

	return result, nil
}

func (s *scoringService) GetResult(ctx context.Context, examID uint, email string) (models.ExamResult, error) {
	result, err := s.results.GetByExamAndStudent(ctx, examID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ExamResult{}, ErrResultNotFound
		}
		return models.ExamResult{}, err
	}

	return result, nil
}

// ensureStudent registers a learner on their first submission so the roster
// follows actual participation.
func (s *scoringService) ensureStudent(ctx context.Context, email string) error {
	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	name, _, _ := strings.Cut(email, "@")
	student := models.Student{Name: name, Email: email}
	if err := s.students.Create(ctx, &student); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	return nil
}

// storedEvaluation rebuilds an evaluation from a persisted result so the
// emission phase of a conflicting retry awards what was actually recorded.
func storedEvaluation(result models.ExamResult) (dto.EvaluationResult, error) {
	evaluation := dto.EvaluationResult{
		CorrectCount: result.CorrectCount,
		WrongCount:   result.WrongCount,
		Total:        result.Total,
		Percentage:   result.Percentage,
	}

	if len(result.Answers) > 0 {
		if err := json.Unmarshal(result.Answers, &evaluation.Records); err != nil {
			return dto.EvaluationResult{}, err
		}
	}

	return evaluation, nil
}

func (s *scoringService) emitScoringEvents(ctx context.Context, examID uint, email string, evaluation dto.EvaluationResult) error {
	if err := emitEvent(ctx, s.events, models.XpEvent{
		Email:       email,
		Kind:        models.XpEventExamCompleted,
		ReferenceID: examID,
		Points:      s.points.ExamCompleted,
	}); err != nil {
		return err
	}

	if s.points.CorrectAnswer == 0 {
		return nil
	}

	for _, record := range evaluation.Records {
		if !record.IsCorrect {
			continue
		}
		if err := emitEvent(ctx, s.events, models.XpEvent{
			Email:       email,
			Kind:        models.XpEventQuestionAnswered,
			ReferenceID: record.QuestionID,
			Points:      s.points.CorrectAnswer,
		}); err != nil {
			return err
		}
	}

	return nil
}

// emitEvent appends an XP event unless one with the same idempotency key
// (email, kind, reference id) already exists.
func emitEvent(ctx context.Context, events repository.XpEventRepository, event models.XpEvent) error {
	exists, err := events.Exists(ctx, event.Email, event.Kind, event.ReferenceID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := events.Create(ctx, &event); err != nil {
		return err
	}

	observability.XpEventsEmitted().WithLabelValues(event.Kind).Inc()
	return nil
}
