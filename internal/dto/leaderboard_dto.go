package dto

import (
	"time"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// RankedEntry is one row of a leaderboard page.
type RankedEntry struct {
	Rank   int    `json:"rank"`
	Email  string `json:"email"`
	Points int64  `json:"points"`
}

// LeaderboardResponse is one cached page of ranked standings.
type LeaderboardResponse struct {
	Scope      string        `json:"scope"`
	Entries    []RankedEntry `json:"entries"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	ComputedAt time.Time     `json:"computed_at"`
	CacheHit   bool          `json:"cache_hit"`
}

// LeaderboardResetRequest identifies the scope to reset.
type LeaderboardResetRequest struct {
	Scope string `json:"scope" validate:"required"`
}

// LeaderboardAuditResponse is the serialized reset record.
type LeaderboardAuditResponse struct {
	ID        uint      `json:"id"`
	Scope     string    `json:"scope"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLeaderboardAuditResponse converts a model into a DTO.
func NewLeaderboardAuditResponse(model models.LeaderboardAudit) LeaderboardAuditResponse {
	return LeaderboardAuditResponse{
		ID:        model.ID,
		Scope:     model.Scope,
		Actor:     model.Actor,
		CreatedAt: model.CreatedAt,
	}
}
