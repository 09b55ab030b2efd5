package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// ExamFilter narrows exam listings.
type ExamFilter struct {
	Published *bool
	Search    string
	Page      int
	PageSize  int
}

// ExamRepository defines data operations for exams.
type ExamRepository interface {
	List(ctx context.Context, filter ExamFilter) ([]models.Exam, int64, error)
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	GetByNameFold(ctx context.Context, name string) (models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) List(ctx context.Context, filter ExamFilter) ([]models.Exam, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Exam{})

	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var exams []models.Exam
	if err := query.Order("start_time ASC").Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

// GetByNameFold looks an exam up by name ignoring case, backing the
// case-insensitive uniqueness rule.
func (r *examRepository) GetByNameFold(ctx context.Context, name string) (models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&exam).Error
	if err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) Update(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}
