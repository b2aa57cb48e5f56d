package services

import (
	"context"
	"testing"
	"time"

	"fittrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recordByType(t *testing.T, svc *RecordService, userID uint, recordType string) *models.Record {
	t.Helper()
	records, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	for i := range records {
		if records[i].RecordType == recordType {
			return &records[i]
		}
	}
	return nil
}

func TestReconcileRatchetsUpward(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "alice")
	ctx := context.Background()

	_, err := workouts.Log(ctx, user.ID, "Morning Run", "30 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec := recordByType(t, svc, user.ID, RecordLongestWorkout)
	require.NotNil(t, rec)
	assert.Equal(t, 30.0, rec.Value)
	assert.Equal(t, "min", rec.Unit)

	// a shorter later workout must not lower the record
	_, err = workouts.Log(ctx, user.ID, "Evening Walk", "20 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec = recordByType(t, svc, user.ID, RecordLongestWorkout)
	require.NotNil(t, rec)
	assert.Equal(t, 30.0, rec.Value)

	// a longer one ratchets it up
	_, err = workouts.Log(ctx, user.ID, "Long Ride", "2 hours", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec = recordByType(t, svc, user.ID, RecordLongestWorkout)
	require.NotNil(t, rec)
	assert.Equal(t, 120.0, rec.Value)
}

func TestReconcileTieKeepsStoredRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "bob")
	ctx := context.Background()

	first, err := workouts.Log(ctx, user.ID, "Run", "45 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	second, err := workouts.Log(ctx, user.ID, "Other Run", "45 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec := recordByType(t, svc, user.ID, RecordLongestWorkout)
	require.NotNil(t, rec)
	assert.Equal(t, 45.0, rec.Value)
	require.NotNil(t, rec.SourceWorkoutID)
	assert.Equal(t, first.ID, *rec.SourceWorkoutID)
	assert.NotEqual(t, second.ID, *rec.SourceWorkoutID)
}

func TestReconcileMealAndDayRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	meals := NewMealService(db)
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "carol")
	ctx := context.Background()
	now := time.Now()

	_, err := meals.Log(ctx, user.ID, "Burger", 800, now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = meals.Log(ctx, user.ID, "Salad", 300, now)
	require.NoError(t, err)

	burned := 250
	_, err = workouts.Log(ctx, user.ID, "HIIT", "25 minutes", &burned, now)
	require.NoError(t, err)
	_, err = workouts.Log(ctx, user.ID, "Stretch", "10 minutes", nil, now)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, user.ID))

	highestMeal := recordByType(t, svc, user.ID, RecordHighestCalorieMeal)
	require.NotNil(t, highestMeal)
	// latest meal is the salad; the burger never went through reconcile
	assert.Equal(t, 300.0, highestMeal.Value)

	calorieDay := recordByType(t, svc, user.ID, RecordHighestCalorieDay)
	require.NotNil(t, calorieDay)
	assert.Equal(t, 1100.0, calorieDay.Value)

	burnedDay := recordByType(t, svc, user.ID, RecordMostCaloriesBurnedDay)
	require.NotNil(t, burnedDay)
	assert.Equal(t, 250.0, burnedDay.Value)

	perDay := recordByType(t, svc, user.ID, RecordMostWorkoutsInADay)
	require.NotNil(t, perDay)
	assert.Equal(t, 2.0, perDay.Value)
}

func TestReconcileMealTieKeepsStoredRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	meals := NewMealService(db)
	user := seedUser(t, db, "grace")
	ctx := context.Background()
	now := time.Now()

	first, err := meals.Log(ctx, user.ID, "Feast", 900, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	before := recordByType(t, svc, user.ID, RecordHighestCalorieMeal)
	require.NotNil(t, before)

	// an equal meal later must not touch the stored row
	second, err := meals.Log(ctx, user.ID, "Second Feast", 900, now)
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec := recordByType(t, svc, user.ID, RecordHighestCalorieMeal)
	require.NotNil(t, rec)
	assert.Equal(t, 900.0, rec.Value)
	require.NotNil(t, rec.SourceMealID)
	assert.Equal(t, first.ID, *rec.SourceMealID)
	assert.NotEqual(t, second.ID, *rec.SourceMealID)
	assert.True(t, before.AchievedAt.Equal(rec.AchievedAt))

	// nor can a lower one regress it
	_, err = meals.Log(ctx, user.ID, "Snack", 500, now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec = recordByType(t, svc, user.ID, RecordHighestCalorieMeal)
	require.NotNil(t, rec)
	assert.Equal(t, 900.0, rec.Value)
	assert.Equal(t, first.ID, *rec.SourceMealID)
}

func TestReconcileWorkoutStreakRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "dave")
	ctx := context.Background()
	now := time.Now()

	for _, daysAgo := range []int{0, 1, 2, 4} {
		_, err := workouts.Log(ctx, user.ID, "Run", "20 minutes", nil, now.AddDate(0, 0, -daysAgo))
		require.NoError(t, err)
	}
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec := recordByType(t, svc, user.ID, RecordLongestWorkoutStreak)
	require.NotNil(t, rec)
	assert.Equal(t, 3.0, rec.Value)
}

func TestReconcileBenchPressReps(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "erin")
	ctx := context.Background()

	_, err := workouts.Log(ctx, user.ID, "Bench Press", "12 reps", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Reconcile(ctx, user.ID))

	rec := recordByType(t, svc, user.ID, RecordMostRepsBenchPress)
	require.NotNil(t, rec)
	assert.Equal(t, 12.0, rec.Value)
	assert.Equal(t, "reps", rec.Unit)
}

func TestReconcileEmptyHistoryCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, zap.NewNop())
	user := seedUser(t, db, "frank")

	require.NoError(t, svc.Reconcile(context.Background(), user.ID))

	records, err := svc.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
