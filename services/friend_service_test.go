package services

import (
	"context"
	"testing"
	"time"

	"fittrack/errs"
	"fittrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, alice.ID, bob.ID))

	// bob sees the pending request, no friends yet
	overview, err := svc.Overview(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, overview.Friends)
	require.Len(t, overview.Requests, 1)
	assert.Equal(t, alice.ID, overview.Requests[0].UserID)

	require.NoError(t, svc.AcceptRequest(ctx, bob.ID, alice.ID))

	// both sides now see each other, exactly one edge exists
	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		overview, err := svc.Overview(ctx, pair[0])
		require.NoError(t, err)
		require.Len(t, overview.Friends, 1)
		assert.Equal(t, pair[1], overview.Friends[0].UserID)
		assert.Empty(t, overview.Requests)
	}
	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFriendRequestRejectsDuplicatesAndSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	assert.ErrorIs(t, svc.SendRequest(ctx, alice.ID, alice.ID), errs.ErrValidation)

	require.NoError(t, svc.SendRequest(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, svc.SendRequest(ctx, alice.ID, bob.ID), errs.ErrValidation)
	// the reverse direction is also blocked while pending
	assert.ErrorIs(t, svc.SendRequest(ctx, bob.ID, alice.ID), errs.ErrValidation)

	require.NoError(t, svc.AcceptRequest(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, svc.SendRequest(ctx, alice.ID, bob.ID), errs.ErrValidation)
	assert.ErrorIs(t, svc.AcceptRequest(ctx, bob.ID, alice.ID), errs.ErrValidation)
}

func TestAcceptOnlyByAddressee(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, alice.ID, bob.ID))
	// the requester cannot accept their own request
	assert.ErrorIs(t, svc.AcceptRequest(ctx, alice.ID, bob.ID), errs.ErrForbidden)

	carol := seedUser(t, db, "carol")
	assert.ErrorIs(t, svc.AcceptRequest(ctx, carol.ID, alice.ID), errs.ErrNotFound)
}

func TestSuggestionsAreFriendsOfFriends(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	dave := seedUser(t, db, "dave")

	befriend(t, db, alice.ID, bob.ID)
	befriend(t, db, bob.ID, carol.ID)
	befriend(t, db, bob.ID, dave.ID)
	// pending edge excludes dave from alice's suggestions
	require.NoError(t, db.Create(&models.Friendship{
		RequesterID: alice.ID, AddresseeID: dave.ID, Status: models.FriendshipPending,
	}).Error)

	out, err := svc.Suggestions(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, carol.ID, out[0].UserID)
}

func TestSearchExcludesSelfAndShortQueries(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "alina")
	ctx := context.Background()

	out, err := svc.Search(ctx, alice.ID, "a")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = svc.Search(ctx, alice.ID, "ali")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "alina", out[0].Name)

	// matching ignores case regardless of how the stored name is cased
	out, err = svc.Search(ctx, alice.ID, "ALI")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "alina", out[0].Name)
}

func TestFeedMergesGroupActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewFriendService(db)
	meals := NewMealService(db)
	workouts := NewWorkoutService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	befriend(t, db, alice.ID, bob.ID)
	ctx := context.Background()
	now := time.Now()

	_, err := meals.Log(ctx, bob.ID, "Oats", 350, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = workouts.Log(ctx, alice.ID, "Run", "20 minutes", nil, now.Add(-time.Hour))
	require.NoError(t, err)
	// outside the feed window
	_, err = meals.Log(ctx, bob.ID, "Old Meal", 500, now.AddDate(0, 0, -10))
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "workout", feed[0].Type)
	assert.Equal(t, "alice", feed[0].UserName)
	assert.Equal(t, "meal", feed[1].Type)
	assert.Equal(t, "bob", feed[1].UserName)
}
