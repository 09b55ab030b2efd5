package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// QuestionRepository defines data operations for questions.
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Question, error)
	ListByExam(ctx context.Context, examID uint) ([]models.Question, error)
	CreateBatch(ctx context.Context, questions []models.Question) error
	AttachToExam(ctx context.Context, examID uint, questions []models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

// ListByExam returns the exam's questions in insertion order, which is the
// canonical report order for evaluation.
func (r *questionRepository) ListByExam(ctx context.Context, examID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Joins("JOIN exam_questions ON exam_questions.question_id = questions.id").
		Where("exam_questions.exam_id = ?", examID).
		Order("questions.id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepository) AttachToExam(ctx context.Context, examID uint, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	exam := models.Exam{ID: examID}
	return r.db.WithContext(ctx).Model(&exam).Association("Questions").Append(questions)
}
