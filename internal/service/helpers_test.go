package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightpath-labs/brightpath-api/internal/models"
)

// openTestDB gives every test its own in-memory database so unique indexes
// do not collide across tests.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Question{},
		&models.Exam{},
		&models.ExamResult{},
		&models.XpEvent{},
		&models.LeaderboardAudit{},
	))

	return db
}
