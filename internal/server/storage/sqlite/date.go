package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/internal/server/storage"
)

// AddDate inserts a new date record. No duplicate check
func (s *Storage) AddDate(ctx context.Context, record *models.DateRecord) error {
	query := `
		INSERT INTO dates (id, user_id, date, tracked_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Date,
		record.TrackedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert date record: %w", err)
	}

	return nil
}

// GetUserDates retrieves all date records for a user in storage order
func (s *Storage) GetUserDates(ctx context.Context, userID string) ([]*models.DateRecord, error) {
	query := `
		SELECT id, user_id, date, tracked_at
		FROM dates
		WHERE user_id = ?
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user dates: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []*models.DateRecord{}

	for rows.Next() {
		record := &models.DateRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Date,
			&record.TrackedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan date record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// DeleteDate deletes a single record by its ID
// The user_id predicate keeps users from deleting records they don't own
func (s *Storage) DeleteDate(ctx context.Context, userID, recordID string) error {
	query := `DELETE FROM dates WHERE id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, recordID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete date record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrDateNotFound
	}

	return nil
}

// DeleteDateByValue deletes exactly one record matching the date value.
// При наличии дубликатов удаляется самая старая запись: порядок
// детерминирован (tracked_at, затем id), а не "какая попадется"
func (s *Storage) DeleteDateByValue(ctx context.Context, userID, date string) error {
	query := `
		DELETE FROM dates
		WHERE id = (
			SELECT id FROM dates
			WHERE user_id = ? AND date = ?
			ORDER BY tracked_at, id
			LIMIT 1
		)
	`

	result, err := s.db.ExecContext(ctx, query, userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete date record by value: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrDateNotFound
	}

	return nil
}

// DeleteUserDates deletes every record for the user
func (s *Storage) DeleteUserDates(ctx context.Context, userID string) (int, error) {
	query := `DELETE FROM dates WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user dates: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// UpdateDate replaces the date value of one record and refreshes its timestamp
func (s *Storage) UpdateDate(ctx context.Context, userID, recordID, date string, trackedAt time.Time) error {
	query := `
		UPDATE dates
		SET date = ?, tracked_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query, date, trackedAt, recordID, userID)
	if err != nil {
		return fmt.Errorf("failed to update date record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrDateNotFound
	}

	return nil
}
