package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fittrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubClassifier struct {
	labels map[string]string
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyMealNames(ctx context.Context, names []string) (map[string]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.labels, nil
}

func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Friendship{
		RequesterID: a,
		AddresseeID: b,
		Status:      models.FriendshipAccepted,
	}).Error)
}

func TestLeaderboardScoresAndOrder(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	befriend(t, db, alice.ID, bob.ID)

	workouts := NewWorkoutService(db)
	meals := NewMealService(db)
	ctx := context.Background()

	_, err := workouts.Log(ctx, alice.ID, "Run", "30 minutes", nil, time.Now())
	require.NoError(t, err)
	_, err = meals.Log(ctx, alice.ID, "Grilled Chicken Salad", 400, time.Now())
	require.NoError(t, err)
	_, err = meals.Log(ctx, bob.ID, "Double Cheeseburger", 900, time.Now())
	require.NoError(t, err)

	classifier := &stubClassifier{labels: map[string]string{
		"Grilled Chicken Salad": "Healthy",
		"Double Cheeseburger":   "Unhealthy",
	}}
	svc := NewLeaderboardService(db, classifier, zap.NewNop())

	entries, err := svc.Compute(ctx, alice.ID, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, alice.ID, entries[0].UserID)
	assert.Equal(t, 30*10+50, entries[0].FitScore)
	assert.Equal(t, bob.ID, entries[1].UserID)
	assert.Equal(t, 0, entries[1].FitScore)
	assert.Equal(t, 1, classifier.calls)
}

func TestLeaderboardSurvivesClassifierFailure(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")

	workouts := NewWorkoutService(db)
	meals := NewMealService(db)
	ctx := context.Background()

	_, err := workouts.Log(ctx, alice.ID, "Run", "30 minutes", nil, time.Now())
	require.NoError(t, err)
	_, err = meals.Log(ctx, alice.ID, "Salad", 300, time.Now())
	require.NoError(t, err)

	classifier := &stubClassifier{err: errors.New("oracle down")}
	svc := NewLeaderboardService(db, classifier, zap.NewNop())

	entries, err := svc.Compute(ctx, alice.ID, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// workout points only, no meal bonus when the oracle is unreachable
	assert.Equal(t, 300, entries[0].FitScore)
}

func TestLeaderboardExcludesOldActivity(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")

	workouts := NewWorkoutService(db)
	ctx := context.Background()

	_, err := workouts.Log(ctx, alice.ID, "Ancient Run", "60 minutes", nil, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	_, err = workouts.Log(ctx, alice.ID, "Fresh Run", "10 minutes", nil, time.Now())
	require.NoError(t, err)

	svc := NewLeaderboardService(db, &stubClassifier{}, zap.NewNop())
	entries, err := svc.Compute(ctx, alice.ID, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].FitScore)
}
