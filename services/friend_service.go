package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fittrack/errs"
	"fittrack/models"

	"gorm.io/gorm"
)

const (
	feedWindowDays    = 3
	suggestionLimit   = 5
	minSearchQueryLen = 2
)

type FriendService struct{ db *gorm.DB }

func NewFriendService(db *gorm.DB) *FriendService { return &FriendService{db: db} }

type FriendSummary struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
}

type FriendsOverview struct {
	Friends  []FriendSummary `json:"friends"`
	Requests []FriendSummary `json:"friendRequests"` // received, still pending
}

// Search finds other users by name substring, case-insensitive.
// Queries shorter than two characters return nothing.
func (s *FriendService) Search(ctx context.Context, userID uint, query string) ([]FriendSummary, error) {
	if len(query) < minSearchQueryLen {
		return []FriendSummary{}, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("LOWER(name) LIKE LOWER(?) AND id <> ?", "%"+query+"%", userID).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

// SendRequest creates a pending edge. Sending to yourself, to an
// existing friend, or where any edge already exists in either direction
// is rejected as a no-op validation error — never a duplicate edge.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID uint) error {
	if senderID == recipientID {
		return fmt.Errorf("cannot befriend yourself: %w", errs.ErrValidation)
	}
	var recipient models.User
	if err := s.db.WithContext(ctx).First(&recipient, recipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", recipientID, errs.ErrNotFound)
		}
		return err
	}

	existing, err := s.edgeBetween(ctx, senderID, recipientID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Status == models.FriendshipAccepted {
			return fmt.Errorf("already friends: %w", errs.ErrValidation)
		}
		return fmt.Errorf("request already pending: %w", errs.ErrValidation)
	}

	edge := models.Friendship{
		RequesterID: senderID,
		AddresseeID: recipientID,
		Status:      models.FriendshipPending,
	}
	return s.db.WithContext(ctx).Create(&edge).Error
}

// AcceptRequest flips the pending edge sent by senderID to accepted.
// Only the addressee may accept; re-accepting is a no-op error.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, senderID uint) error {
	edge, err := s.edgeBetween(ctx, senderID, userID)
	if err != nil {
		return err
	}
	if edge == nil {
		return fmt.Errorf("no pending request from user %d: %w", senderID, errs.ErrNotFound)
	}
	if edge.Status == models.FriendshipAccepted {
		return fmt.Errorf("already friends: %w", errs.ErrValidation)
	}
	if edge.RequesterID != senderID || edge.AddresseeID != userID {
		return fmt.Errorf("request was not addressed to you: %w", errs.ErrForbidden)
	}
	edge.Status = models.FriendshipAccepted
	return s.db.WithContext(ctx).Save(edge).Error
}

// Overview lists confirmed friends and pending requests addressed to the user.
func (s *FriendService) Overview(ctx context.Context, userID uint) (*FriendsOverview, error) {
	friendIDs, err := acceptedFriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.usersByID(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	var pending []models.Friendship
	if err := s.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Find(&pending).Error; err != nil {
		return nil, err
	}
	requesterIDs := make([]uint, 0, len(pending))
	for _, e := range pending {
		requesterIDs = append(requesterIDs, e.RequesterID)
	}
	requesters, err := s.usersByID(ctx, requesterIDs)
	if err != nil {
		return nil, err
	}

	return &FriendsOverview{Friends: toSummaries(friends), Requests: toSummaries(requesters)}, nil
}

// Suggestions proposes friends-of-friends the user is not yet connected
// to in any way, capped at five.
func (s *FriendService) Suggestions(ctx context.Context, userID uint) ([]FriendSummary, error) {
	friendIDs, err := acceptedFriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []FriendSummary{}, nil
	}

	excluded := map[uint]struct{}{userID: {}}
	for _, id := range friendIDs {
		excluded[id] = struct{}{}
	}
	// anyone on the other end of any of the user's edges, pending included
	var edges []models.Friendship
	if err := s.db.WithContext(ctx).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	for _, e := range edges {
		excluded[e.RequesterID] = struct{}{}
		excluded[e.AddresseeID] = struct{}{}
	}

	candidates := map[uint]struct{}{}
	for _, fid := range friendIDs {
		fofs, err := acceptedFriendIDs(ctx, s.db, fid)
		if err != nil {
			return nil, err
		}
		for _, id := range fofs {
			if _, skip := excluded[id]; !skip {
				candidates[id] = struct{}{}
			}
		}
	}

	ids := make([]uint, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > suggestionLimit {
		ids = ids[:suggestionLimit]
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

// ---------- Activity feed ----------

type FeedItem struct {
	Type     string    `json:"type"` // "meal" | "workout"
	UserID   uint      `json:"userId"`
	UserName string    `json:"userName"`
	Name     string    `json:"name"`
	Calories int       `json:"calories,omitempty"`
	Duration string    `json:"duration,omitempty"`
	At       time.Time `json:"at"`
}

// Feed merges the group's recent meals and workouts, newest first.
func (s *FriendService) Feed(ctx context.Context, userID uint) ([]FeedItem, error) {
	friendIDs, err := acceptedFriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	memberIDs := append([]uint{userID}, friendIDs...)
	since := time.Now().AddDate(0, 0, -feedWindowDays)

	users, err := s.usersByID(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND ate_at >= ?", memberIDs, since).
		Find(&meals).Error; err != nil {
		return nil, err
	}
	var workouts []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND performed_at >= ?", memberIDs, since).
		Find(&workouts).Error; err != nil {
		return nil, err
	}

	feed := make([]FeedItem, 0, len(meals)+len(workouts))
	for _, m := range meals {
		feed = append(feed, FeedItem{
			Type: "meal", UserID: m.UserID, UserName: names[m.UserID],
			Name: m.Name, Calories: m.Calories, At: m.AteAt,
		})
	}
	for _, w := range workouts {
		feed = append(feed, FeedItem{
			Type: "workout", UserID: w.UserID, UserName: names[w.UserID],
			Name: w.Name, Duration: w.Duration, At: w.PerformedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	return feed, nil
}

// PublishActivity pushes a freshly logged event to the websocket
// sessions of the user's friends. Lookup failures drop the event, the
// log call already succeeded.
func (s *FriendService) PublishActivity(ctx context.Context, hub *FeedHub, userID uint, kind, name string, at time.Time) {
	friendIDs, err := acceptedFriendIDs(ctx, s.db, userID)
	if err != nil || len(friendIDs) == 0 {
		return
	}
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "name").First(&user, userID).Error; err != nil {
		return
	}
	hub.BroadcastActivity(friendIDs, ActivityEvent{
		UserID:   userID,
		UserName: user.Name,
		Type:     kind,
		Name:     name,
		At:       at,
	})
}

// ---------- Friend profile ----------

type FriendProfile struct {
	UserID        uint      `json:"userId"`
	Name          string    `json:"name"`
	Goal          string    `json:"goal"`
	MemberSince   time.Time `json:"memberSince"`
	TotalWorkouts int64     `json:"totalWorkouts"`
	TotalMeals    int64     `json:"totalMeals"`
}

func (s *FriendService) Profile(ctx context.Context, profileID uint) (*FriendProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", profileID, errs.ErrNotFound)
		}
		return nil, err
	}
	out := &FriendProfile{
		UserID:      user.ID,
		Name:        user.Name,
		Goal:        user.Goal,
		MemberSince: user.CreatedAt,
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ?", profileID).
		Count(&out.TotalWorkouts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ?", profileID).
		Count(&out.TotalMeals).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- internals ----------

// edgeBetween returns the single edge joining two users in either
// direction, nil if none exists.
func (s *FriendService) edgeBetween(ctx context.Context, a, b uint) (*models.Friendship, error) {
	var edge models.Friendship
	err := s.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *FriendService) usersByID(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

func toSummaries(users []models.User) []FriendSummary {
	out := make([]FriendSummary, 0, len(users))
	for _, u := range users {
		out = append(out, FriendSummary{UserID: u.ID, Name: u.Name})
	}
	return out
}
