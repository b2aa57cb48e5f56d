package services

import (
	"context"
	"testing"
	"time"

	"fittrack/errs"
	"fittrack/models"
	"fittrack/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()

	token, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// duplicate email
	_, err = svc.Register(ctx, "Alice Again", "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Authenticate(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter22")
	assert.Error(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Bob", "bob@example.com", "original1")
	require.NoError(t, err)

	// ForgotPassword stores a token even though the email send fails
	svc.ForgotPassword(ctx, "bob@example.com")
	var user models.User
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&user).Error)
	require.NotEmpty(t, user.ResetToken)

	require.NoError(t, svc.ResetPassword(ctx, user.ResetToken, "newpass1"))
	_, err = svc.Authenticate(ctx, "bob@example.com", "newpass1")
	require.NoError(t, err)

	// token is single-use
	err = svc.ResetPassword(ctx, user.ResetToken, "another1")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	user := seedUser(t, db, "carol")
	user.ResetToken = "expired"
	user.ResetTokenExp = time.Now().Add(-time.Minute)
	require.NoError(t, db.Save(user).Error)

	err := svc.ResetPassword(context.Background(), "expired", "newpass1")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dave", "dave@example.com", "current1")
	require.NoError(t, err)
	var user models.User
	require.NoError(t, db.Where("email = ?", "dave@example.com").First(&user).Error)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "next1234"), errs.ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "current1", "next1234"))
	_, err = svc.Authenticate(ctx, "dave@example.com", "next1234")
	require.NoError(t, err)
}

func TestProfileIncludesBMI(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	user := &models.User{
		Name: "erin", Email: "erin@example.com", Password: "x",
		Weight: 68, Height: 170,
	}
	require.NoError(t, db.Create(user).Error)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	bmi, ok := profile["bmi"].(float64)
	require.True(t, ok)
	expected, err := utils.CalculateBMI(170, 68)
	require.NoError(t, err)
	assert.InDelta(t, expected, bmi, 0.001)
	assert.Equal(t, utils.BMICategory(expected), profile["bmiCategory"])
}

func TestStartingWeightWrittenOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	user := seedUser(t, db, "frank")
	ctx := context.Background()

	first := 90.0
	require.NoError(t, svc.UpdateGoals(ctx, user.ID, "lose", 80, &first))
	second := 85.0
	require.NoError(t, svc.UpdateGoals(ctx, user.ID, "lose", 78, &second))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 90.0, got.StartingWeight)
	assert.Equal(t, 78.0, got.TargetWeight)
}

func TestResetDataClearsEventsAndRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	records := NewRecordService(db, zap.NewNop())
	workouts := NewWorkoutService(db)
	user := seedUser(t, db, "gina")
	ctx := context.Background()

	_, err := workouts.Log(ctx, user.ID, "Run", "30 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, records.Reconcile(ctx, user.ID))

	require.NoError(t, svc.ResetData(ctx, user.ID))

	left, err := workouts.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	recs, err := records.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// the ratchet restarts from scratch
	_, err = workouts.Log(ctx, user.ID, "Short Run", "10 minutes", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, records.Reconcile(ctx, user.ID))
	recs, err = records.List(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
}

func TestCommonActivitiesTopThree(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	meals := NewMealService(db)
	user := seedUser(t, db, "hank")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := meals.Log(ctx, user.ID, "Oats", 350, time.Now())
		require.NoError(t, err)
	}
	for _, name := range []string{"Rice", "Toast", "Soup", "Eggs"} {
		_, err := meals.Log(ctx, user.ID, name, 300, time.Now())
		require.NoError(t, err)
	}

	out, err := svc.CommonActivities(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, out.Meals, 3)
	assert.Equal(t, "Oats", out.Meals[0].Name)
}
