package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// ExamResultRepository defines data operations for scored attempts.
type ExamResultRepository interface {
	GetByExamAndStudent(ctx context.Context, examID uint, email string) (models.ExamResult, error)
	// Create relies on the (exam_id, student_email) unique index; callers
	// translate gorm.ErrDuplicatedKey into their conflict error.
	Create(ctx context.Context, result *models.ExamResult) error
}

type examResultRepository struct {
	db *gorm.DB
}

// NewExamResultRepository instantiates the repository.
func NewExamResultRepository(db *gorm.DB) ExamResultRepository {
	return &examResultRepository{db: db}
}

func (r *examResultRepository) GetByExamAndStudent(ctx context.Context, examID uint, email string) (models.ExamResult, error) {
	var result models.ExamResult
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Where("student_email = ?", email).
		First(&result).Error
	if err != nil {
		return models.ExamResult{}, err
	}

	return result, nil
}

func (r *examResultRepository) Create(ctx context.Context, result *models.ExamResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}
