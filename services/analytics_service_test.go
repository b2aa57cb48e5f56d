package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	meals := NewMealService(db)
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "alice")
	ctx := context.Background()
	now := time.Now()

	_, err := meals.Log(ctx, user.ID, "Breakfast", 700, now)
	require.NoError(t, err)
	_, err = meals.Log(ctx, user.ID, "Dinner", 700, now.AddDate(0, 0, -1))
	require.NoError(t, err)

	burned := 200
	_, err = workouts.Log(ctx, user.ID, "Run", "30 minutes", &burned, now)
	require.NoError(t, err)
	_, err = workouts.Log(ctx, user.ID, "Swim", "1 hour", nil, now.AddDate(0, 0, -1))
	require.NoError(t, err)

	out, err := svc.Summary(ctx, user.ID, 7)
	require.NoError(t, err)

	// 1400 kcal over a 7-day window, gaps included
	assert.Equal(t, 200, out.AverageDailyCalories)
	assert.Equal(t, 2, out.TotalWorkouts)
	assert.Equal(t, 2, out.WorkoutConsistency)
	assert.Equal(t, 2, out.CurrentStreak)

	require.Len(t, out.WorkoutHistory, 2)
	assert.Equal(t, 60, out.WorkoutHistory[0].Minutes)
	assert.Equal(t, 30, out.WorkoutHistory[1].Minutes)

	require.NotNil(t, out.BestDay)
	assert.Equal(t, 200, out.BestDay.Calories)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	user := seedUser(t, db, "bob")

	out, err := svc.Summary(context.Background(), user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, out.AverageDailyCalories)
	assert.Equal(t, 0, out.TotalWorkouts)
	assert.Equal(t, 0, out.CurrentStreak)
	assert.Nil(t, out.BestDay)
}

func TestCalorieHistoryGroupsByDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	meals := NewMealService(db)
	user := seedUser(t, db, "carol")
	ctx := context.Background()
	now := time.Now()

	_, err := meals.Log(ctx, user.ID, "Lunch", 500, now)
	require.NoError(t, err)
	_, err = meals.Log(ctx, user.ID, "Snack", 200, now)
	require.NoError(t, err)
	_, err = meals.Log(ctx, user.ID, "Dinner", 600, now.AddDate(0, 0, -2))
	require.NoError(t, err)

	history, err := svc.CalorieHistory(ctx, user.ID, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// oldest day first
	assert.Equal(t, 600, history[0].Calories)
	assert.Equal(t, 700, history[1].Calories)
	assert.Less(t, history[0].Date, history[1].Date)
}

func TestLifetimeStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	meals := NewMealService(db)
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "dave")
	ctx := context.Background()

	_, err := meals.Log(ctx, user.ID, "Meal", 400, time.Now())
	require.NoError(t, err)
	b1, b2 := 150, 250
	_, err = workouts.Log(ctx, user.ID, "Run", "20 minutes", &b1, time.Now())
	require.NoError(t, err)
	_, err = workouts.Log(ctx, user.ID, "Bike", "40 minutes", &b2, time.Now().AddDate(0, 0, -10))
	require.NoError(t, err)

	out, err := svc.Lifetime(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.TotalWorkouts)
	assert.Equal(t, int64(1), out.TotalMeals)
	assert.Equal(t, int64(400), out.TotalCaloriesBurned)
}
