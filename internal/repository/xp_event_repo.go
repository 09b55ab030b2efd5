package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// XpAggregateFilter bounds the ledger aggregation.
type XpAggregateFilter struct {
	// ReferenceID limits the sum to events correlated with one entity,
	// e.g. an exam id for exam-scoped leaderboards.
	ReferenceID *uint
	// Kind limits the sum to one event kind; empty matches every kind.
	// Reference ids are only unique within a kind, so ReferenceID filters
	// usually need a Kind alongside.
	Kind string
	// After excludes events at or before the given instant; used to
	// re-baseline standings from the latest reset.
	After *time.Time
}

// EmailPoints is one row of the grouped ledger projection.
type EmailPoints struct {
	Email  string `json:"email"`
	Points int64  `json:"points"`
}

// XpEventRepository defines append and read operations on the XP ledger.
// There is deliberately no update or delete.
type XpEventRepository interface {
	Exists(ctx context.Context, email, kind string, referenceID uint) (bool, error)
	Create(ctx context.Context, event *models.XpEvent) error
	SumPointsByEmail(ctx context.Context, filter XpAggregateFilter) ([]EmailPoints, error)
}

type xpEventRepository struct {
	db *gorm.DB
}

// NewXpEventRepository instantiates the repository.
func NewXpEventRepository(db *gorm.DB) XpEventRepository {
	return &xpEventRepository{db: db}
}

func (r *xpEventRepository) Exists(ctx context.Context, email, kind string, referenceID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.XpEvent{}).
		Where("email = ?", email).
		Where("kind = ?", kind).
		Where("reference_id = ?", referenceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *xpEventRepository) Create(ctx context.Context, event *models.XpEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// SumPointsByEmail projects the ledger into per-student totals, highest
// first with email as the deterministic tiebreak.
func (r *xpEventRepository) SumPointsByEmail(ctx context.Context, filter XpAggregateFilter) ([]EmailPoints, error) {
	query := r.db.WithContext(ctx).Model(&models.XpEvent{}).
		Select("email", "SUM(points) AS points").
		Group("email").
		Order("points DESC, email ASC")

	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	if filter.After != nil {
		query = query.Where("created_at > ?", *filter.After)
	}

	var totals []EmailPoints
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}

	return totals, nil
}
