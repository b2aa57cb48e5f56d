package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/errs"
	"fittrack/models"

	"gorm.io/gorm"
)

type WorkoutService struct{ db *gorm.DB }

func NewWorkoutService(db *gorm.DB) *WorkoutService { return &WorkoutService{db: db} }

func (s *WorkoutService) Log(ctx context.Context, userID uint, name, duration string, caloriesBurned *int, performedAt time.Time) (*models.Workout, error) {
	if name == "" || duration == "" {
		return nil, fmt.Errorf("workout needs a name and a duration: %w", errs.ErrValidation)
	}
	if caloriesBurned != nil && *caloriesBurned < 0 {
		return nil, fmt.Errorf("calories burned cannot be negative: %w", errs.ErrValidation)
	}
	if performedAt.IsZero() {
		performedAt = time.Now()
	}
	workout := &models.Workout{
		UserID:         userID,
		Name:           name,
		Duration:       duration,
		CaloriesBurned: caloriesBurned,
		PerformedAt:    performedAt,
	}
	if err := s.db.WithContext(ctx).Create(workout).Error; err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) List(ctx context.Context, userID uint) ([]models.Workout, error) {
	var workouts []models.Workout
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("performed_at DESC").
		Find(&workouts).Error
	return workouts, err
}

func (s *WorkoutService) Update(ctx context.Context, userID, workoutID uint, name, duration string, caloriesBurned *int) (*models.Workout, error) {
	workout, err := s.owned(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if name == "" || duration == "" {
		return nil, fmt.Errorf("workout needs a name and a duration: %w", errs.ErrValidation)
	}
	workout.Name = name
	workout.Duration = duration
	workout.CaloriesBurned = caloriesBurned
	if err := s.db.WithContext(ctx).Save(workout).Error; err != nil {
		return nil, err
	}
	return workout, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID uint) error {
	workout, err := s.owned(ctx, userID, workoutID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(workout).Error
}

func (s *WorkoutService) owned(ctx context.Context, userID, workoutID uint) (*models.Workout, error) {
	var workout models.Workout
	if err := s.db.WithContext(ctx).First(&workout, workoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workout %d: %w", workoutID, errs.ErrNotFound)
		}
		return nil, err
	}
	if workout.UserID != userID {
		return nil, fmt.Errorf("workout %d: %w", workoutID, errs.ErrForbidden)
	}
	return &workout, nil
}
