package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"fittrack/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The seven personal-best kinds tracked per user.
const (
	RecordLongestWorkout        = "longest_workout"
	RecordMostRepsBenchPress    = "most_reps_bench_press"
	RecordHighestCalorieMeal    = "highest_calorie_meal"
	RecordMostCaloriesBurnedDay = "most_calories_burned_day"
	RecordMostWorkoutsInADay    = "most_workouts_in_a_day"
	RecordHighestCalorieDay     = "highest_calorie_day"
	RecordLongestWorkoutStreak  = "longest_workout_streak"
)

type RecordService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecordService(db *gorm.DB, log *zap.Logger) *RecordService {
	return &RecordService{db: db, log: log}
}

// recordSnapshot is everything the candidate functions may look at,
// fetched once per reconciliation.
type recordSnapshot struct {
	latestWorkout  *models.Workout
	latestMeal     *models.Meal
	todaysWorkouts []models.Workout
	todaysMeals    []models.Meal
	workoutDates   []string // distinct YYYY-MM-DD, newest first
}

type recordCandidate struct {
	value           float64
	sourceMealID    *uint
	sourceWorkoutID *uint
}

type recordDefinition struct {
	Type    string
	Unit    string
	compute func(s *recordSnapshot) (recordCandidate, bool)
}

// One compute function per record kind; Reconcile dispatches over this
// table. The latest-event kinds deliberately look only at the newest
// meal/workout, matching the behavior users already rely on.
var recordDefinitions = []recordDefinition{
	{
		Type: RecordLongestWorkout, Unit: "min",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if s.latestWorkout == nil {
				return recordCandidate{}, false
			}
			mins := ParseDurationMinutes(s.latestWorkout.Duration)
			return recordCandidate{value: float64(mins), sourceWorkoutID: &s.latestWorkout.ID}, true
		},
	},
	{
		Type: RecordMostRepsBenchPress, Unit: "reps",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if s.latestWorkout == nil || !strings.Contains(strings.ToLower(s.latestWorkout.Name), "bench press") {
				return recordCandidate{}, false
			}
			// for rep-style workouts the leading duration token is the rep count
			reps, ok := LeadingNumber(s.latestWorkout.Duration)
			if !ok {
				return recordCandidate{}, false
			}
			return recordCandidate{value: float64(reps), sourceWorkoutID: &s.latestWorkout.ID}, true
		},
	},
	{
		Type: RecordHighestCalorieMeal, Unit: "kcal",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if s.latestMeal == nil {
				return recordCandidate{}, false
			}
			return recordCandidate{value: float64(s.latestMeal.Calories), sourceMealID: &s.latestMeal.ID}, true
		},
	},
	{
		Type: RecordMostCaloriesBurnedDay, Unit: "kcal",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if len(s.todaysWorkouts) == 0 {
				return recordCandidate{}, false
			}
			total := 0
			for _, w := range s.todaysWorkouts {
				if w.CaloriesBurned != nil {
					total += *w.CaloriesBurned
				}
			}
			return recordCandidate{value: float64(total)}, true
		},
	},
	{
		Type: RecordMostWorkoutsInADay, Unit: "workouts",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if len(s.todaysWorkouts) == 0 {
				return recordCandidate{}, false
			}
			return recordCandidate{value: float64(len(s.todaysWorkouts))}, true
		},
	},
	{
		Type: RecordHighestCalorieDay, Unit: "kcal",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if len(s.todaysMeals) == 0 {
				return recordCandidate{}, false
			}
			total := 0
			for _, m := range s.todaysMeals {
				total += m.Calories
			}
			return recordCandidate{value: float64(total)}, true
		},
	},
	{
		Type: RecordLongestWorkoutStreak, Unit: "days",
		compute: func(s *recordSnapshot) (recordCandidate, bool) {
			if len(s.workoutDates) == 0 {
				return recordCandidate{}, false
			}
			return recordCandidate{value: float64(LongestStreak(s.workoutDates))}, true
		},
	},
}

// Reconcile recomputes every record candidate from the user's current
// event history and ratchets stored values upward. Unqualified
// candidates are skipped, never reported as errors.
func (s *RecordService) Reconcile(ctx context.Context, userID uint) error {
	snap, err := s.loadSnapshot(ctx, userID, time.Now())
	if err != nil {
		return err
	}

	for _, def := range recordDefinitions {
		cand, ok := def.compute(snap)
		if !ok {
			continue
		}
		if math.IsNaN(cand.value) || math.IsInf(cand.value, 0) || cand.value <= 0 {
			continue
		}
		if err := s.upsertIfGreater(ctx, userID, def, cand); err != nil {
			return err
		}
	}
	return nil
}

// upsertIfGreater is the monotonic ratchet: a single conditional upsert
// so two concurrent reconciliations for the same user cannot clobber a
// higher value with a lower one. Ties keep the stored row.
func (s *RecordService) upsertIfGreater(ctx context.Context, userID uint, def recordDefinition, cand recordCandidate) error {
	now := time.Now()
	rec := models.Record{
		UserID:          userID,
		RecordType:      def.Type,
		Value:           cand.value,
		Unit:            def.Unit,
		AchievedAt:      now,
		SourceMealID:    cand.sourceMealID,
		SourceWorkoutID: cand.sourceWorkoutID,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "record_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":             cand.value,
			"unit":              def.Unit,
			"achieved_at":       now,
			"source_meal_id":    cand.sourceMealID,
			"source_workout_id": cand.sourceWorkoutID,
			"updated_at":        now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("excluded.value > records.value"),
		}},
	}).Create(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("record updated",
			zap.Uint("user_id", userID),
			zap.String("record_type", def.Type),
			zap.Float64("value", cand.value),
		)
	}
	return nil
}

func (s *RecordService) List(ctx context.Context, userID uint) ([]models.Record, error) {
	var records []models.Record
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("record_type ASC").
		Find(&records).Error
	return records, err
}

func (s *RecordService) loadSnapshot(ctx context.Context, userID uint, now time.Time) (*recordSnapshot, error) {
	snap := &recordSnapshot{}

	var latestWorkout models.Workout
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("performed_at DESC").
		First(&latestWorkout).Error
	switch {
	case err == nil:
		snap.latestWorkout = &latestWorkout
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var latestMeal models.Meal
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		First(&latestMeal).Error
	switch {
	case err == nil:
		snap.latestMeal = &latestMeal
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND performed_at BETWEEN ? AND ?", userID, dayStart(now), dayEnd(now)).
		Find(&snap.todaysWorkouts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND ate_at BETWEEN ? AND ?", userID, dayStart(now), dayEnd(now)).
		Find(&snap.todaysMeals).Error; err != nil {
		return nil, err
	}

	dates, err := workoutDatesDesc(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	snap.workoutDates = dates

	return snap, nil
}

// workoutDatesDesc returns the distinct calendar dates (local time) on
// which the user logged at least one workout, newest first.
func workoutDatesDesc(ctx context.Context, db *gorm.DB, userID uint) ([]string, error) {
	var stamps []time.Time
	if err := db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ?", userID).
		Order("performed_at DESC").
		Pluck("performed_at", &stamps).Error; err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var dates []string
	for _, ts := range stamps {
		key := ts.Local().Format(dateLayout)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
