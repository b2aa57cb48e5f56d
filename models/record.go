package models

import "time"

// Record is a persisted personal best. At most one row exists per
// (user, record type); the value only ever goes up (see RecordService).
// No soft delete here: the conditional upsert must always see the one
// live row for its key.
type Record struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"uniqueIndex:idx_user_record_type;not null"`
	RecordType string    `gorm:"size:64;uniqueIndex:idx_user_record_type;not null"`
	Value      float64   `gorm:"not null"`
	Unit       string    `gorm:"size:16"`
	AchievedAt time.Time

	SourceMealID    *uint
	SourceWorkoutID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
