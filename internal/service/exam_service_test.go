package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

func setupExamService(t *testing.T) (ExamService, repository.ExamRepository) {
	t.Helper()

	db := openTestDB(t, "exam_service")
	exams := repository.NewExamRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewExamService(exams, validate, zerolog.Nop())
	if concrete, ok := svc.(*examService); ok {
		concrete.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }
	}

	return svc, exams
}

func examCreatePayload() dto.ExamCreateRequest {
	return dto.ExamCreateRequest{
		Name:            "Midterm Exam",
		StartTime:       "2026-04-01T09:00:00Z",
		EndTime:         "2026-04-01T11:00:00Z",
		DurationMinutes: 90,
		CreatedBy:       "teacher@example.com",
	}
}

func TestExamServiceCreate(t *testing.T) {
	svc, _ := setupExamService(t)

	created, err := svc.Create(context.Background(), examCreatePayload())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Midterm Exam", created.Name)
	require.False(t, created.Published)
}

func TestExamServiceCreateRejectsInvertedDates(t *testing.T) {
	svc, _ := setupExamService(t)

	payload := examCreatePayload()
	payload.StartTime = "2026-04-01T11:00:00Z"
	payload.EndTime = "2026-04-01T09:00:00Z"

	_, err := svc.Create(context.Background(), payload)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, RuleDates, validationErr.Rule)
}

func TestExamServiceCreateRejectsNonPositiveDuration(t *testing.T) {
	svc, _ := setupExamService(t)

	payload := examCreatePayload()
	payload.DurationMinutes = -30

	_, err := svc.Create(context.Background(), payload)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, RuleDuration, validationErr.Rule)
}

func TestExamServiceNameUniqueIgnoresCase(t *testing.T) {
	svc, _ := setupExamService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, examCreatePayload())
	require.NoError(t, err)

	duplicate := examCreatePayload()
	duplicate.Name = "midterm EXAM"
	_, err = svc.Create(ctx, duplicate)
	require.ErrorIs(t, err, ErrExamNameTaken)
}

func TestExamServiceUnpublishAfterStartRejected(t *testing.T) {
	svc, exams := setupExamService(t)
	ctx := context.Background()

	// Window opened before the injected reference time of 2026-03-10 12:00.
	exam := models.Exam{
		Name:            "Running Exam",
		StartTime:       time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Published:       true,
	}
	require.NoError(t, exams.Create(ctx, &exam))

	published := false
	_, err := svc.Update(ctx, exam.ID, dto.ExamUpdateRequest{Published: &published})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, RuleVisibility, validationErr.Rule)
}

func TestExamServiceUnpublishBeforeStartAllowed(t *testing.T) {
	svc, exams := setupExamService(t)
	ctx := context.Background()

	exam := models.Exam{
		Name:            "Future Exam",
		StartTime:       time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.March, 20, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Published:       true,
	}
	require.NoError(t, exams.Create(ctx, &exam))

	published := false
	updated, err := svc.Update(ctx, exam.ID, dto.ExamUpdateRequest{Published: &published})
	require.NoError(t, err)
	require.False(t, updated.Published)
}

func TestExamServicePublishTransition(t *testing.T) {
	svc, exams := setupExamService(t)
	ctx := context.Background()

	exam := models.Exam{
		Name:            "Draft Exam",
		StartTime:       time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.March, 30, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
	require.NoError(t, exams.Create(ctx, &exam))

	// Publishing is allowed even mid-window; only the reverse transition
	// is gated on the start time.
	published := true
	updated, err := svc.Update(ctx, exam.ID, dto.ExamUpdateRequest{Published: &published})
	require.NoError(t, err)
	require.True(t, updated.Published)
}

func TestExamServiceUpdateUnknownExam(t *testing.T) {
	svc, _ := setupExamService(t)

	name := "Renamed"
	_, err := svc.Update(context.Background(), 404, dto.ExamUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestExamServiceListFiltersPublished(t *testing.T) {
	svc, exams := setupExamService(t)
	ctx := context.Background()

	window := func(day int) (time.Time, time.Time) {
		start := time.Date(2026, time.April, day, 9, 0, 0, 0, time.UTC)
		return start, start.Add(2 * time.Hour)
	}

	for i, spec := range []struct {
		name      string
		published bool
	}{
		{"Algebra", true},
		{"Biology", false},
		{"Chemistry", true},
	} {
		start, end := window(i + 1)
		exam := models.Exam{Name: spec.name, StartTime: start, EndTime: end, DurationMinutes: 60, Published: spec.published}
		require.NoError(t, exams.Create(ctx, &exam))
	}

	published := true
	listed, err := svc.List(ctx, dto.ExamListRequest{Published: &published})
	require.NoError(t, err)
	require.Equal(t, int64(2), listed.Total)
	require.Len(t, listed.Items, 2)
	require.Equal(t, "Algebra", listed.Items[0].Name)
}
