package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

type scoringFixture struct {
	db        *gorm.DB
	svc       ScoringService
	exams     repository.ExamRepository
	questions repository.QuestionRepository
	events    repository.XpEventRepository
	exam      models.Exam
	loaded    []models.Question
}

func setupScoring(t *testing.T) *scoringFixture {
	t.Helper()
	ctx := context.Background()

	db := openTestDB(t, "scoring")
	exams := repository.NewExamRepository(db)
	questions := repository.NewQuestionRepository(db)
	results := repository.NewExamResultRepository(db)
	events := repository.NewXpEventRepository(db)

	students := repository.NewStudentRepository(db)

	svc := NewScoringService(exams, questions, results, events, students, ScoringPoints{ExamCompleted: 50, CorrectAnswer: 5}, zerolog.Nop())
	if concrete, ok := svc.(*scoringService); ok {
		concrete.now = func() time.Time { return time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC) }
	}

	exam := models.Exam{
		Name:            "Scored Exam",
		StartTime:       time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Published:       true,
	}
	require.NoError(t, exams.Create(ctx, &exam))

	bank := sampleQuestions()
	for i := range bank {
		bank[i].ID = 0
	}
	require.NoError(t, questions.CreateBatch(ctx, bank))
	require.NoError(t, questions.AttachToExam(ctx, exam.ID, bank))

	return &scoringFixture{db: db, svc: svc, exams: exams, questions: questions, events: events, exam: exam, loaded: bank}
}

func (f *scoringFixture) eventCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.XpEvent{}).Count(&count).Error)
	return count
}

func TestSubmitExamScoresAndAwardsXp(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	result, err := f.svc.SubmitExam(ctx, f.exam.ID, "Student@Example.com", []dto.SubmittedAnswer{
		{QuestionID: f.loaded[0].ID, SelectedOption: "OptionD"},
		{QuestionID: f.loaded[1].ID, SelectedOption: "B"},
	})
	require.NoError(t, err)
	require.Equal(t, "student@example.com", result.StudentEmail)
	require.Equal(t, models.ExamResultStatusCompleted, result.Status)
	require.Equal(t, 1, result.CorrectCount)
	require.Equal(t, 2, result.WrongCount)
	require.Equal(t, 3, result.Total)
	require.InDelta(t, 33.33, result.Percentage, 0.01)

	// One exam-completed event plus one per correct answer.
	require.Equal(t, int64(2), f.eventCount(t))

	exists, err := f.events.Exists(ctx, "student@example.com", models.XpEventExamCompleted, f.exam.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = f.events.Exists(ctx, "student@example.com", models.XpEventQuestionAnswered, f.loaded[0].ID)
	require.NoError(t, err)
	require.True(t, exists)

	// First submission registers the learner.
	students := repository.NewStudentRepository(f.db)
	student, err := students.GetByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	require.Equal(t, "student", student.Name)
}

func TestSubmitExamSecondAttemptConflicts(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	answers := []dto.SubmittedAnswer{{QuestionID: f.loaded[0].ID, SelectedOption: "D"}}

	_, err := f.svc.SubmitExam(ctx, f.exam.ID, "student@example.com", answers)
	require.NoError(t, err)
	before := f.eventCount(t)

	_, err = f.svc.SubmitExam(ctx, f.exam.ID, "student@example.com", answers)
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	// The retry must not duplicate ledger entries.
	require.Equal(t, before, f.eventCount(t))

	// A different student is unaffected.
	_, err = f.svc.SubmitExam(ctx, f.exam.ID, "other@example.com", answers)
	require.NoError(t, err)
}

func TestResubmissionAwardsFromRecordedAttemptOnly(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	// The first attempt gets everything wrong: only the completion award lands.
	_, err := f.svc.SubmitExam(ctx, f.exam.ID, "student@example.com", []dto.SubmittedAnswer{
		{QuestionID: f.loaded[0].ID, SelectedOption: "A"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), f.eventCount(t))

	// An improved second submission is rejected and must not mint bonuses
	// the recorded attempt never earned.
	_, err = f.svc.SubmitExam(ctx, f.exam.ID, "student@example.com", []dto.SubmittedAnswer{
		{QuestionID: f.loaded[0].ID, SelectedOption: "D"},
		{QuestionID: f.loaded[1].ID, SelectedOption: "A"},
		{QuestionID: f.loaded[2].ID, SelectedOption: "B"},
	})
	require.ErrorIs(t, err, ErrAlreadyCompleted)
	require.Equal(t, int64(1), f.eventCount(t))

	exists, err := f.events.Exists(ctx, "student@example.com", models.XpEventQuestionAnswered, f.loaded[0].ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRecordScoreRetryFinishesEventPhase(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	evaluation := Evaluate(f.loaded, []dto.SubmittedAnswer{{QuestionID: f.loaded[0].ID, SelectedOption: "D"}})

	_, err := f.svc.RecordScore(ctx, f.exam.ID, "student@example.com", evaluation)
	require.NoError(t, err)

	// Simulate a crash after the result insert but before event emission.
	require.NoError(t, f.db.Where("email = ?", "student@example.com").Delete(&models.XpEvent{}).Error)
	require.Equal(t, int64(0), f.eventCount(t))

	_, err = f.svc.RecordScore(ctx, f.exam.ID, "student@example.com", evaluation)
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	// The conflicting retry still completed the emission phase.
	require.Equal(t, int64(2), f.eventCount(t))
}

func TestSubmitExamClosedWindow(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	closed := models.Exam{
		Name:            "Past Exam",
		StartTime:       time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.April, 1, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Published:       true,
	}
	require.NoError(t, f.exams.Create(ctx, &closed))

	_, err := f.svc.SubmitExam(ctx, closed.ID, "student@example.com", nil)
	require.ErrorIs(t, err, ErrExamClosed)
}

func TestSubmitExamUnpublished(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	draft := models.Exam{
		Name:            "Draft Exam",
		StartTime:       time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
	require.NoError(t, f.exams.Create(ctx, &draft))

	_, err := f.svc.SubmitExam(ctx, draft.ID, "student@example.com", nil)
	require.ErrorIs(t, err, ErrExamClosed)
}

func TestSubmitExamUnknownExam(t *testing.T) {
	f := setupScoring(t)

	_, err := f.svc.SubmitExam(context.Background(), 404, "student@example.com", nil)
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestGetResultRoundTrip(t *testing.T) {
	f := setupScoring(t)
	ctx := context.Background()

	_, err := f.svc.SubmitExam(ctx, f.exam.ID, "student@example.com", []dto.SubmittedAnswer{
		{QuestionID: f.loaded[0].ID, SelectedOption: "optiond"},
	})
	require.NoError(t, err)

	stored, err := f.svc.GetResult(ctx, f.exam.ID, "STUDENT@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, stored.CorrectCount)

	response := dto.NewExamResultResponse(stored)
	require.Len(t, response.Answers, 3)
	require.Equal(t, "optiond", response.Answers[0].StudentAnswer)
	require.Equal(t, dto.NotAnswered, response.Answers[1].StudentAnswer)
}

func TestGetResultNotFound(t *testing.T) {
	f := setupScoring(t)

	_, err := f.svc.GetResult(context.Background(), f.exam.ID, "nobody@example.com")
	require.ErrorIs(t, err, ErrResultNotFound)
}
