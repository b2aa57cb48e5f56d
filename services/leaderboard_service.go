package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fittrack/errs"
	"fittrack/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	workoutPointsPerMinute = 10
	healthyMealPoints      = 50
	defaultWindowDays      = 7
)

// MealClassifier labels each distinct meal name "Healthy" or
// "Unhealthy" in one round trip. CoachService implements it.
type MealClassifier interface {
	ClassifyMealNames(ctx context.Context, names []string) (map[string]string, error)
}

// LeaderboardEntry is computed per request and never persisted.
type LeaderboardEntry struct {
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	FitScore int    `json:"fitScore"`
}

type LeaderboardService struct {
	db         *gorm.DB
	classifier MealClassifier
	log        *zap.Logger
}

func NewLeaderboardService(db *gorm.DB, classifier MealClassifier, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{db: db, classifier: classifier, log: log}
}

// Compute scores the user and their accepted friends over a trailing
// window and returns the group ordered by FitScore, highest first.
// Equal scores keep a stable relative order.
func (s *LeaderboardService) Compute(ctx context.Context, userID uint, windowDays int) ([]LeaderboardEntry, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	var me models.User
	if err := s.db.WithContext(ctx).First(&me, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("leaderboard: %w", errs.ErrNotFound)
		}
		return nil, err
	}

	friendIDs, err := acceptedFriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	memberIDs := append([]uint{userID}, friendIDs...)

	var members []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", memberIDs).
		Find(&members).Error; err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	scores := make(map[uint]int, len(memberIDs))

	var workouts []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND performed_at >= ?", memberIDs, since).
		Find(&workouts).Error; err != nil {
		return nil, err
	}
	for _, w := range workouts {
		if mins := ParseDurationMinutes(w.Duration); mins > 0 {
			scores[w.UserID] += mins * workoutPointsPerMinute
		}
	}

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND ate_at >= ?", memberIDs, since).
		Find(&meals).Error; err != nil {
		return nil, err
	}

	healthiness := s.classifyGroupMeals(ctx, meals)
	for _, m := range meals {
		if healthiness[m.Name] == "Healthy" {
			scores[m.UserID] += healthyMealPoints
		}
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	// keep the requesting user first pre-sort so ties favor them stably
	sort.Slice(members, func(i, j int) bool {
		if members[i].ID == userID {
			return true
		}
		if members[j].ID == userID {
			return false
		}
		return members[i].ID < members[j].ID
	})
	for _, m := range members {
		entries = append(entries, LeaderboardEntry{UserID: m.ID, Name: m.Name, FitScore: scores[m.ID]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].FitScore > entries[j].FitScore })
	return entries, nil
}

// classifyGroupMeals batches the distinct meal names through the oracle.
// When the oracle is down or talks nonsense the whole group simply earns
// no meal points this round; the leaderboard must still come back.
func (s *LeaderboardService) classifyGroupMeals(ctx context.Context, meals []models.Meal) map[string]string {
	if len(meals) == 0 || s.classifier == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var names []string
	for _, m := range meals {
		if _, dup := seen[m.Name]; dup {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}

	healthiness, err := s.classifier.ClassifyMealNames(ctx, names)
	if err != nil {
		s.log.Warn("meal classification unavailable, scoring workouts only", zap.Error(err))
		return nil
	}
	return healthiness
}

// acceptedFriendIDs collects the other end of every accepted edge
// touching userID, whichever direction it was requested in.
func acceptedFriendIDs(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var edges []models.Friendship
	if err := db.WithContext(ctx).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.RequesterID == userID {
			ids = append(ids, e.AddresseeID)
		} else {
			ids = append(ids, e.RequesterID)
		}
	}
	return ids, nil
}
