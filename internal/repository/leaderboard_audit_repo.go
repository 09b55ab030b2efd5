package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// LeaderboardAuditRepository defines operations on the reset audit trail.
type LeaderboardAuditRepository interface {
	Create(ctx context.Context, audit *models.LeaderboardAudit) error
	LatestByScope(ctx context.Context, scope string) (models.LeaderboardAudit, error)
}

type leaderboardAuditRepository struct {
	db *gorm.DB
}

// NewLeaderboardAuditRepository instantiates the repository.
func NewLeaderboardAuditRepository(db *gorm.DB) LeaderboardAuditRepository {
	return &leaderboardAuditRepository{db: db}
}

func (r *leaderboardAuditRepository) Create(ctx context.Context, audit *models.LeaderboardAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *leaderboardAuditRepository) LatestByScope(ctx context.Context, scope string) (models.LeaderboardAudit, error) {
	var audit models.LeaderboardAudit
	err := r.db.WithContext(ctx).
		Where("scope = ?", scope).
		Order("created_at DESC").
		First(&audit).Error
	if err != nil {
		return models.LeaderboardAudit{}, err
	}

	return audit, nil
}
