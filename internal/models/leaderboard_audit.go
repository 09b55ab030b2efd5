package models

import (
	"time"

	"gorm.io/datatypes"
)

// LeaderboardAudit records one leaderboard reset: who triggered it, when,
// and the standings captured at that moment. The underlying XP ledger is
// untouched by a reset; aggregation re-baselines from the newest audit row.
type LeaderboardAudit struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Scope     string         `gorm:"size:128;not null;index" json:"scope"`
	Actor     string         `gorm:"size:255;not null" json:"actor"`
	Standings datatypes.JSON `gorm:"type:json" json:"standings"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
