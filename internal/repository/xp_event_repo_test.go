package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

func TestXpEventRepositoryExists(t *testing.T) {
	db := setupTestDB(t, "xp_exists")
	repo := NewXpEventRepository(db)
	ctx := context.Background()

	event := models.XpEvent{Email: "alice@example.com", Kind: models.XpEventExamCompleted, ReferenceID: 3, Points: 50}
	require.NoError(t, repo.Create(ctx, &event))

	exists, err := repo.Exists(ctx, "alice@example.com", models.XpEventExamCompleted, 3)
	require.NoError(t, err)
	require.True(t, exists)

	// Any component of the identity key distinguishes events.
	exists, err = repo.Exists(ctx, "alice@example.com", models.XpEventExamCompleted, 4)
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = repo.Exists(ctx, "alice@example.com", models.XpEventVideoWatched, 3)
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = repo.Exists(ctx, "bob@example.com", models.XpEventExamCompleted, 3)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestXpEventRepositorySumPointsByEmail(t *testing.T) {
	db := setupTestDB(t, "xp_sum")
	repo := NewXpEventRepository(db)
	ctx := context.Background()

	cutoff := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	events := []models.XpEvent{
		{Email: "bob@example.com", Kind: models.XpEventExamCompleted, ReferenceID: 1, Points: 50, CreatedAt: cutoff.Add(-time.Hour)},
		{Email: "bob@example.com", Kind: models.XpEventVideoWatched, ReferenceID: 9, Points: 10, CreatedAt: cutoff.Add(time.Hour)},
		{Email: "alice@example.com", Kind: models.XpEventExamCompleted, ReferenceID: 1, Points: 50, CreatedAt: cutoff.Add(time.Hour)},
		{Email: "carol@example.com", Kind: models.XpEventExamCompleted, ReferenceID: 2, Points: 50, CreatedAt: cutoff.Add(time.Hour)},
	}
	for i := range events {
		require.NoError(t, repo.Create(ctx, &events[i]))
	}

	totals, err := repo.SumPointsByEmail(ctx, XpAggregateFilter{})
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.Equal(t, "bob@example.com", totals[0].Email)
	require.Equal(t, int64(60), totals[0].Points)
	require.Equal(t, "alice@example.com", totals[1].Email, "ties break on email ascending")
	require.Equal(t, "carol@example.com", totals[2].Email)

	examID := uint(1)
	totals, err = repo.SumPointsByEmail(ctx, XpAggregateFilter{ReferenceID: &examID})
	require.NoError(t, err)
	require.Len(t, totals, 2)

	totals, err = repo.SumPointsByEmail(ctx, XpAggregateFilter{Kind: models.XpEventExamCompleted})
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.Equal(t, int64(50), findPoints(totals, "bob@example.com"), "video award is excluded by kind")

	totals, err = repo.SumPointsByEmail(ctx, XpAggregateFilter{After: &cutoff})
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.Equal(t, int64(10), findPoints(totals, "bob@example.com"))
}

func findPoints(totals []EmailPoints, email string) int64 {
	for _, row := range totals {
		if row.Email == email {
			return row.Points
		}
	}
	return -1
}
