package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/errs"
	"fittrack/models"
	"fittrack/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// ---------- Registration / authentication ----------

func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("name, email and password are required: %w", errs.ErrValidation)
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return "", fmt.Errorf("user already exists: %w", errs.ErrValidation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return "", err
	}
	user := models.User{Name: name, Email: email, Password: hashed}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return "", err
	}

	// welcome mail is best-effort; registration already happened
	if err := utils.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.log.Warn("welcome email failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return utils.GenerateJWT(user.ID)
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("invalid email or password")
	}
	return utils.GenerateJWT(user.ID)
}

// ForgotPassword never reveals whether the email exists.
func (s *UserService) ForgotPassword(ctx context.Context, email string) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return
	}
	token := utils.GenerateRandomToken(6)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(resetTokenTTL)
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		s.log.Warn("saving reset token failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}
	if err := utils.SendResetEmail(user.Email, token); err != nil {
		s.log.Warn("reset email failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("token and new password are required: %w", errs.ErrValidation)
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		return fmt.Errorf("invalid or expired token: %w", errs.ErrValidation)
	}
	if time.Now().After(user.ResetTokenExp) {
		return fmt.Errorf("invalid or expired token: %w", errs.ErrValidation)
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return s.db.WithContext(ctx).Save(&user).Error
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, newPassword string) error {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return fmt.Errorf("incorrect current password: %w", errs.ErrValidation)
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.db.WithContext(ctx).Save(user).Error
}

// ---------- Profile ----------

type ProfileInput struct {
	Name          string  `json:"name"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
}

func (s *UserService) Profile(ctx context.Context, userID uint) (map[string]interface{}, error) {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := map[string]interface{}{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"weight":         user.Weight,
		"height":         user.Height,
		"age":            user.Age,
		"gender":         user.Gender,
		"activityLevel":  user.ActivityLevel,
		"goal":           user.Goal,
		"goalType":       user.GoalType,
		"targetWeight":   user.TargetWeight,
		"startingWeight": user.StartingWeight,
		"avatar":         user.Avatar,
		"notificationPreferences": map[string]bool{
			"weeklySummary": user.NotifyWeeklySummary,
			"dailyReminder": user.NotifyDailyReminder,
		},
		"memberSince": user.CreatedAt,
	}
	if bmi, err := utils.CalculateBMI(user.Height, user.Weight); err == nil {
		out["bmi"] = bmi
		out["bmiCategory"] = utils.BMICategory(bmi)
	}
	return out, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) error {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return err
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Weight > 0 {
		user.Weight = input.Weight
	}
	if input.Height > 0 {
		user.Height = input.Height
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.ActivityLevel != "" {
		user.ActivityLevel = input.ActivityLevel
	}
	if input.Goal != "" {
		user.Goal = input.Goal
	}
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *UserService) UpdateGoals(ctx context.Context, userID uint, goalType string, targetWeight float64, startingWeight *float64) error {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return err
	}
	if goalType != "" {
		user.GoalType = goalType
	}
	if targetWeight > 0 {
		user.TargetWeight = targetWeight
	}
	// starting weight is written once and never silently overwritten
	if startingWeight != nil && user.StartingWeight == 0 {
		user.StartingWeight = *startingWeight
	}
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *UserService) UpdateNotifications(ctx context.Context, userID uint, weeklySummary, dailyReminder bool) error {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return err
	}
	user.NotifyWeeklySummary = weeklySummary
	user.NotifyDailyReminder = dailyReminder
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *UserService) SetAvatar(ctx context.Context, userID uint, url string) error {
	user, err := s.byID(ctx, userID)
	if err != nil {
		return err
	}
	user.Avatar = url
	return s.db.WithContext(ctx).Save(user).Error
}

// ---------- Account lifecycle ----------

// ResetData wipes the user's events and records but keeps the account.
// Records go through Unscoped: the ratchet must restart from nothing.
func (s *UserService) ResetData(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Meal{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Workout{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&models.Record{}).Error
}

func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.ResetData(ctx, userID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Delete(&models.Friendship{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserDevice{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.User{}, userID).Error
}

// ---------- Common activities ----------

type CommonMeal struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

type CommonWorkout struct {
	Name           string `json:"name"`
	Duration       string `json:"duration"`
	CaloriesBurned *int   `json:"caloriesBurned"`
}

type CommonActivities struct {
	Meals    []CommonMeal    `json:"commonMeals"`
	Workouts []CommonWorkout `json:"commonWorkouts"`
}

// CommonActivities surfaces the top three most-repeated entries so the
// UI can offer one-tap relogging.
func (s *UserService) CommonActivities(ctx context.Context, userID uint) (*CommonActivities, error) {
	out := &CommonActivities{}

	if err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Select("name, calories").
		Where("user_id = ?", userID).
		Group("name, calories").
		Order("COUNT(*) DESC").
		Limit(3).
		Scan(&out.Meals).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Select("name, duration, calories_burned").
		Where("user_id = ?", userID).
		Group("name, duration, calories_burned").
		Order("COUNT(*) DESC").
		Limit(3).
		Scan(&out.Workouts).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) byID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
