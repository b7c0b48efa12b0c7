package storage

import (
	"context"
	"time"

	"github.com/iudanet/redtrack/internal/models"
)

// DateStorage defines interface for tracked date persistence.
// Dates cross this boundary as dd/mm/yyyy strings; parsing and arithmetic
// happen in the interval package. Duplicate (user, date) pairs are allowed.
type DateStorage interface {
	// AddDate inserts a new date record. No duplicate check
	AddDate(ctx context.Context, record *models.DateRecord) error

	// GetUserDates retrieves all date records for a user in storage order.
	// Returns empty slice if no records found
	GetUserDates(ctx context.Context, userID string) ([]*models.DateRecord, error)

	// DeleteDate deletes a single record by its ID.
	// Returns ErrDateNotFound if the record doesn't exist or belongs
	// to another user
	DeleteDate(ctx context.Context, userID, recordID string) error

	// DeleteDateByValue deletes exactly one record matching the date value.
	// With duplicates present the oldest record is removed (lowest
	// tracked_at, then ID). Returns ErrDateNotFound if nothing matches
	DeleteDateByValue(ctx context.Context, userID, date string) error

	// DeleteUserDates deletes every record for the user.
	// Returns number of deleted records
	DeleteUserDates(ctx context.Context, userID string) (int, error)

	// UpdateDate replaces the date value of one record and refreshes its
	// timestamp. Returns ErrDateNotFound if the record doesn't exist or
	// belongs to another user
	UpdateDate(ctx context.Context, userID, recordID, date string, trackedAt time.Time) error
}
