package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"fittrack/errs"
	"fittrack/models"

	"gorm.io/gorm"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// ---------- Summary ----------

type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type DayCalories struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

type BestDay struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

type Summary struct {
	AverageDailyCalories int          `json:"averageDailyCalories"`
	TotalWorkouts        int          `json:"totalWorkouts"`
	WorkoutConsistency   int          `json:"workoutConsistency"`
	WorkoutHistory       []DayMinutes `json:"workoutHistory"`
	CurrentStreak        int          `json:"currentStreak"`
	BestDay              *BestDay     `json:"bestDay"`
}

// Summary aggregates the trailing window into chart-ready figures.
// AverageDailyCalories divides by the window length, not by days with
// data, so gaps pull the average down.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, windowDays int) (*Summary, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at >= ?", userID, since).
		Find(&meals).Error; err != nil {
		return nil, err
	}
	var workouts []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND performed_at >= ?", userID, since).
		Find(&workouts).Error; err != nil {
		return nil, err
	}

	out := &Summary{TotalWorkouts: len(workouts)}

	if len(meals) > 0 {
		total := 0
		for _, m := range meals {
			total += m.Calories
		}
		out.AverageDailyCalories = int(math.Round(float64(total) / float64(windowDays)))
	}

	minutesByDay := map[string]int{}
	daysWithWorkout := map[string]struct{}{}
	for _, w := range workouts {
		key := w.PerformedAt.Local().Format(dateLayout)
		daysWithWorkout[key] = struct{}{}
		minutesByDay[key] += ParseDurationMinutes(w.Duration)
	}
	out.WorkoutConsistency = len(daysWithWorkout)
	out.WorkoutHistory = sortedDayMinutes(minutesByDay)

	dates, err := workoutDatesDesc(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	out.CurrentStreak = CurrentStreak(dates, now)

	best, err := s.bestBurnDay(ctx, userID)
	if err != nil {
		return nil, err
	}
	out.BestDay = best

	return out, nil
}

// CalorieHistory returns per-day consumed calories over the window,
// oldest day first.
func (s *AnalyticsService) CalorieHistory(ctx context.Context, userID uint, windowDays int) ([]DayCalories, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at >= ?", userID, since).
		Find(&meals).Error; err != nil {
		return nil, err
	}

	byDay := map[string]int{}
	for _, m := range meals {
		byDay[m.AteAt.Local().Format(dateLayout)] += m.Calories
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DayCalories, 0, len(keys))
	for _, k := range keys {
		out = append(out, DayCalories{Date: k, Calories: byDay[k]})
	}
	return out, nil
}

// ---------- Lifetime ----------

type LifetimeStats struct {
	TotalWorkouts       int64     `json:"totalWorkouts"`
	TotalMeals          int64     `json:"totalMeals"`
	TotalCaloriesBurned int64     `json:"totalCaloriesBurned"`
	MemberSince         time.Time `json:"memberSince"`
}

func (s *AnalyticsService) Lifetime(ctx context.Context, userID uint) (*LifetimeStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	out := &LifetimeStats{MemberSince: user.CreatedAt}
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ?", userID).
		Count(&out.TotalWorkouts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ?", userID).
		Count(&out.TotalMeals).Error; err != nil {
		return nil, err
	}

	var burned *int64
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ? AND calories_burned IS NOT NULL", userID).
		Select("SUM(calories_burned)").
		Scan(&burned).Error; err != nil {
		return nil, err
	}
	if burned != nil {
		out.TotalCaloriesBurned = *burned
	}
	return out, nil
}

// ---------- internals ----------

// bestBurnDay scans all history: the single date with the highest summed
// caloriesBurned, nil when no workout carries a calorie figure.
func (s *AnalyticsService) bestBurnDay(ctx context.Context, userID uint) (*BestDay, error) {
	var workouts []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND calories_burned IS NOT NULL", userID).
		Find(&workouts).Error; err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, nil
	}
	byDay := map[string]int{}
	for _, w := range workouts {
		byDay[w.PerformedAt.Local().Format(dateLayout)] += *w.CaloriesBurned
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := &BestDay{Date: keys[0], Calories: byDay[keys[0]]}
	for _, k := range keys[1:] {
		if byDay[k] > best.Calories {
			best.Date = k
			best.Calories = byDay[k]
		}
	}
	return best, nil
}

func sortedDayMinutes(byDay map[string]int) []DayMinutes {
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DayMinutes, 0, len(keys))
	for _, k := range keys {
		out = append(out, DayMinutes{Date: k, Minutes: byDay[k]})
	}
	return out
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
