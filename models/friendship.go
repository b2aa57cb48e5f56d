package models

import "time"

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a single edge between two users. While pending the
// direction matters (requester → addressee); once accepted the edge is
// treated as undirected. A pair of users has at most one edge in either
// direction; FriendService checks both before creating one.
type Friendship struct {
	ID          uint   `gorm:"primaryKey"`
	RequesterID uint   `gorm:"uniqueIndex:idx_friend_pair;not null"`
	AddresseeID uint   `gorm:"uniqueIndex:idx_friend_pair;not null"`
	Status      string `gorm:"size:16;not null"` // pending | accepted

	CreatedAt time.Time
	UpdatedAt time.Time
}
