package services

import (
	"testing"

	"fittrack/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Workout{},
		&models.Record{},
		&models.Friendship{},
		&models.UserDevice{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}
