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

type MealService struct{ db *gorm.DB }

func NewMealService(db *gorm.DB) *MealService { return &MealService{db: db} }

func (s *MealService) Log(ctx context.Context, userID uint, name string, calories int, ateAt time.Time) (*models.Meal, error) {
	if name == "" || calories < 0 {
		return nil, fmt.Errorf("meal needs a name and non-negative calories: %w", errs.ErrValidation)
	}
	if ateAt.IsZero() {
		ateAt = time.Now()
	}
	meal := &models.Meal{UserID: userID, Name: name, Calories: calories, AteAt: ateAt}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) List(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) Update(ctx context.Context, userID, mealID uint, name string, calories int) (*models.Meal, error) {
	meal, err := s.owned(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	if name == "" || calories < 0 {
		return nil, fmt.Errorf("meal needs a name and non-negative calories: %w", errs.ErrValidation)
	}
	meal.Name = name
	meal.Calories = calories
	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, userID, mealID uint) error {
	meal, err := s.owned(ctx, userID, mealID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(meal).Error
}

func (s *MealService) owned(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal %d: %w", mealID, errs.ErrNotFound)
		}
		return nil, err
	}
	if meal.UserID != userID {
		return nil, fmt.Errorf("meal %d: %w", mealID, errs.ErrForbidden)
	}
	return &meal, nil
}
