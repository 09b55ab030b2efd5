package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/dto"
	"github.com/brightpath-labs/brightpath-api/internal/models"
	"github.com/brightpath-labs/brightpath-api/internal/repository"
)

// ExamService orchestrates exam lifecycle workflows.
type ExamService interface {
	List(ctx context.Context, req dto.ExamListRequest) (dto.ExamListResponse, error)
	GetByID(ctx context.Context, id uint) (dto.ExamResponse, error)
	Create(ctx context.Context, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	Update(ctx context.Context, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error)
}

type examService struct {
	exams     repository.ExamRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExamService constructs an ExamService instance.
func NewExamService(exams repository.ExamRepository, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:     exams,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
		now:       time.Now,
	}
}

func (s *examService) List(ctx context.Context, req dto.ExamListRequest) (dto.ExamListResponse, error) {
	filter := repository.ExamFilter{
		Published: req.Published,
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	exams, total, err := s.exams.List(ctx, filter)
	if err != nil {
		return dto.ExamListResponse{}, err
	}

	return dto.ExamListResponse{
		Items: dto.NewExamResponseSlice(exams),
		Total: total,
	}, nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (dto.ExamResponse, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}

	return dto.NewExamResponse(exam), nil
}

func (s *examService) Create(ctx context.Context, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	start, end, err := payload.Window()
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if err := validateDates(start, end); err != nil {
		return dto.ExamResponse{}, err
	}
	if err := validateDuration(payload.DurationMinutes); err != nil {
		return dto.ExamResponse{}, err
	}

	if err := s.ensureNameFree(ctx, payload.Name, 0); err != nil {
		return dto.ExamResponse{}, err
	}

	exam := models.Exam{
		Name:            payload.Name,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: payload.DurationMinutes,
		CreatedBy:       payload.CreatedBy,
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Str("name", exam.Name).Msg("exam created")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) Update(ctx context.Context, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}

	if payload.Name != nil && *payload.Name != exam.Name {
		if err := s.ensureNameFree(ctx, *payload.Name, exam.ID); err != nil {
			return dto.ExamResponse{}, err
		}
		exam.Name = *payload.Name
	}

	start, end := exam.StartTime, exam.EndTime
	if payload.StartTime != nil {
		if start, err = time.Parse(time.RFC3339, *payload.StartTime); err != nil {
			return dto.ExamResponse{}, err
		}
	}
	if payload.EndTime != nil {
		if end, err = time.Parse(time.RFC3339, *payload.EndTime); err != nil {
			return dto.ExamResponse{}, err
		}
	}

	if payload.StartTime != nil || payload.EndTime != nil {
		if err := validateDates(start, end); err != nil {
			return dto.ExamResponse{}, err
		}
		exam.StartTime, exam.EndTime = start, end
	}

	if payload.DurationMinutes != nil {
		if err := validateDuration(*payload.DurationMinutes); err != nil {
			return dto.ExamResponse{}, err
		}
		exam.DurationMinutes = *payload.DurationMinutes
	}

	if payload.Published != nil && *payload.Published != exam.Published {
		if err := validateVisibility(exam, *payload.Published, s.now()); err != nil {
			return dto.ExamResponse{}, err
		}
		exam.Published = *payload.Published
	}

	if err := s.exams.Update(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Bool("published", exam.Published).Msg("exam updated")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.exams.GetByNameFold(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrExamNameTaken
	}
	return nil
}

// The three lifecycle checks below are independent; callers run whichever
// subset the operation needs.

func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &ValidationError{Rule: RuleDates, Message: "start and end time are required"}
	}
	if end.Before(start) {
		return &ValidationError{Rule: RuleDates, Message: "end time must not precede start time"}
	}
	return nil
}

func validateDuration(minutes int) error {
	if minutes <= 0 {
		return &ValidationError{Rule: RuleDuration, Message: "duration must be a positive number of minutes"}
	}
	return nil
}

// validateVisibility rejects unpublishing an exam whose window has already
// opened; availability cannot be yanked mid-administration.
func validateVisibility(exam models.Exam, published bool, reference time.Time) error {
	if exam.Published && !published && exam.HasStarted(reference) {
		return &ValidationError{Rule: RuleVisibility, Message: "a published exam cannot be unpublished after its start time"}
	}
	return nil
}
