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

// CreateUser creates a new user in the storage.
// Проверка занятости username и вставка выполняются в одной Update
// транзакции: BoltDB сериализует писателей, гонки check-then-insert нет
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		ids := tx.Bucket(bucketUserIDs)

		if users.Get([]byte(user.Username)) != nil {
			return storage.ErrUserAlreadyExists
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put([]byte(user.Username), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		// Индекс ID -> username для выборок по ID
		if err := ids.Put([]byte(user.ID), []byte(user.Username)); err != nil {
			return fmt.Errorf("failed to save user id index: %w", err)
		}

		return nil
	})
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketUsers).Get([]byte(username))
		if data == nil {
			return storage.ErrUserNotFound
		}

		user = &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		username := tx.Bucket(bucketUserIDs).Get([]byte(userID))
		if username == nil {
			return storage.ErrUserNotFound
		}

		data := tx.Bucket(bucketUsers).Get(username)
		if data == nil {
			return storage.ErrUserNotFound
		}

		user = &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdatePassword overwrites the stored password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return s.updateUser(userID, func(user *models.User) {
		user.PasswordHash = passwordHash
	})
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	return s.updateUser(userID, func(user *models.User) {
		user.LastLogin = &lastLogin
	})
}

// updateUser применяет мутацию к пользователю внутри одной транзакции
func (s *Storage) updateUser(userID string, mutate func(*models.User)) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		username := tx.Bucket(bucketUserIDs).Get([]byte(userID))
		if username == nil {
			return storage.ErrUserNotFound
		}

		users := tx.Bucket(bucketUsers)
		data := users.Get(username)
		if data == nil {
			return storage.ErrUserNotFound
		}

		user := &models.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		mutate(user)

		updated, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put(username, updated); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		return nil
	})
}
