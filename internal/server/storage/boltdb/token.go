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

// SaveRefreshToken stores a new refresh token
// If token with same token value exists, it will be replaced
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(token)
		if err != nil {
			return fmt.Errorf("failed to marshal refresh token: %w", err)
		}

		if err := tx.Bucket(bucketTokens).Put([]byte(token.Token), data); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}

		return nil
	})
}

// GetRefreshToken retrieves refresh token by token value
func (s *Storage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken *models.RefreshToken

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTokens).Get([]byte(token))
		if data == nil {
			return storage.ErrTokenNotFound
		}

		refreshToken = &models.RefreshToken{}
		if err := json.Unmarshal(data, refreshToken); err != nil {
			return fmt.Errorf("failed to unmarshal refresh token: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return refreshToken, nil
}

// DeleteRefreshToken deletes refresh token by token value
func (s *Storage) DeleteRefreshToken(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		tokens := tx.Bucket(bucketTokens)

		if tokens.Get([]byte(token)) == nil {
			return storage.ErrTokenNotFound
		}

		if err := tokens.Delete([]byte(token)); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}

		return nil
	})
}

// DeleteUserTokens deletes all refresh tokens for a user
func (s *Storage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	return s.deleteTokens(func(token *models.RefreshToken) bool {
		return token.UserID == userID
	})
}

// DeleteExpiredTokens removes all expired tokens
func (s *Storage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	now := time.Now()
	return s.deleteTokens(func(token *models.RefreshToken) bool {
		return token.ExpiresAt.Before(now)
	})
}

// deleteTokens удаляет все токены, удовлетворяющие предикату
func (s *Storage) deleteTokens(match func(*models.RefreshToken) bool) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		tokens := tx.Bucket(bucketTokens)

		// Сначала собираем ключи: удаление во время ForEach не допускается
		var toDelete [][]byte

		err := tokens.ForEach(func(k, v []byte) error {
			token := &models.RefreshToken{}
			if err := json.Unmarshal(v, token); err != nil {
				return fmt.Errorf("failed to unmarshal refresh token: %w", err)
			}

			if match(token) {
				key := make([]byte, len(k))
				copy(key, k)
				toDelete = append(toDelete, key)
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range toDelete {
			if err := tokens.Delete(key); err != nil {
				return fmt.Errorf("failed to delete refresh token: %w", err)
			}
		}

		deleted = len(toDelete)
		return nil
	})

	if err != nil {
		return 0, err
	}

	return deleted, nil
}
