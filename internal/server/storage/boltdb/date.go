package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/internal/server/storage"
)

// AddDate inserts a new date record. No duplicate check
func (s *Storage) AddDate(ctx context.Context, record *models.DateRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Записи каждого пользователя лежат во вложенном bucket
		userBucket, err := tx.Bucket(bucketDates).CreateBucketIfNotExists([]byte(record.UserID))
		if err != nil {
			return fmt.Errorf("failed to create user dates bucket: %w", err)
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal date record: %w", err)
		}

		if err := userBucket.Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save date record: %w", err)
		}

		return nil
	})
}

// GetUserDates retrieves all date records for a user
func (s *Storage) GetUserDates(ctx context.Context, userID string) ([]*models.DateRecord, error) {
	records := []*models.DateRecord{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		userBucket := tx.Bucket(bucketDates).Bucket([]byte(userID))
		if userBucket == nil {
			return nil
		}

		return userBucket.ForEach(func(k, v []byte) error {
			record := &models.DateRecord{}
			if err := json.Unmarshal(v, record); err != nil {
				return fmt.Errorf("failed to unmarshal date record: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// DeleteDate deletes a single record by its ID
func (s *Storage) DeleteDate(ctx context.Context, userID, recordID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		userBucket := tx.Bucket(bucketDates).Bucket([]byte(userID))
		if userBucket == nil {
			return storage.ErrDateNotFound
		}

		if userBucket.Get([]byte(recordID)) == nil {
			return storage.ErrDateNotFound
		}

		if err := userBucket.Delete([]byte(recordID)); err != nil {
			return fmt.Errorf("failed to delete date record: %w", err)
		}

		return nil
	})
}

// DeleteDateByValue deletes exactly one record matching the date value.
// При дубликатах удаляется самая старая запись (tracked_at, затем ID)
func (s *Storage) DeleteDateByValue(ctx context.Context, userID, date string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		userBucket := tx.Bucket(bucketDates).Bucket([]byte(userID))
		if userBucket == nil {
			return storage.ErrDateNotFound
		}

		var oldest *models.DateRecord

		err := userBucket.ForEach(func(k, v []byte) error {
			record := &models.DateRecord{}
			if err := json.Unmarshal(v, record); err != nil {
				return fmt.Errorf("failed to unmarshal date record: %w", err)
			}

			if record.Date != date {
				return nil
			}

			if oldest == nil ||
				record.TrackedAt.Before(oldest.TrackedAt) ||
				(record.TrackedAt.Equal(oldest.TrackedAt) && record.ID < oldest.ID) {
				oldest = record
			}

			return nil
		})
		if err != nil {
			return err
		}

		if oldest == nil {
			return storage.ErrDateNotFound
		}

		if err := userBucket.Delete([]byte(oldest.ID)); err != nil {
			return fmt.Errorf("failed to delete date record: %w", err)
		}

		return nil
	})
}

// DeleteUserDates deletes every record for the user
func (s *Storage) DeleteUserDates(ctx context.Context, userID string) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		dates := tx.Bucket(bucketDates)
		userBucket := dates.Bucket([]byte(userID))
		if userBucket == nil {
			return nil
		}

		deleted = userBucket.Stats().KeyN

		if err := dates.DeleteBucket([]byte(userID)); err != nil {
			return fmt.Errorf("failed to delete user dates bucket: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// UpdateDate replaces the date value of one record and refreshes its timestamp
func (s *Storage) UpdateDate(ctx context.Context, userID, recordID, date string, trackedAt time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		userBucket := tx.Bucket(bucketDates).Bucket([]byte(userID))
		if userBucket == nil {
			return storage.ErrDateNotFound
		}

		data := userBucket.Get([]byte(recordID))
		if data == nil {
			return storage.ErrDateNotFound
		}

		record := &models.DateRecord{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal date record: %w", err)
		}

		record.Date = date
		record.TrackedAt = trackedAt

		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal date record: %w", err)
		}

		if err := userBucket.Put([]byte(recordID), updated); err != nil {
			return fmt.Errorf("failed to save date record: %w", err)
		}

		return nil
	})
}
