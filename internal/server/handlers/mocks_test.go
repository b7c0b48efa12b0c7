package handlers

import (
	"context"
	"time"

	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users          map[string]*models.User // username -> User
	createError    error
	getUserError   error
	updatePwdError error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if m.updatePwdError != nil {
		return m.updatePwdError
	}
	for _, user := range m.users {
		if user.ID == userID {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, loginTime time.Time) error {
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLogin = &loginTime
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	tokens    map[string]*models.RefreshToken // token -> RefreshToken
	saveError error
	getError  error
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockTokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	stored, ok := m.tokens[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return stored, nil
}

func (m *mockTokenStorage) DeleteRefreshToken(ctx context.Context, token string) error {
	if _, ok := m.tokens[token]; !ok {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, token)
	return nil
}

func (m *mockTokenStorage) DeleteUserTokens(ctx context.Context, userID string) (int, error) {
	deleted := 0
	for token, stored := range m.tokens {
		if stored.UserID == userID {
			delete(m.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockTokenStorage) DeleteExpiredTokens(ctx context.Context) (int, error) {
	deleted := 0
	now := time.Now()
	for token, stored := range m.tokens {
		if stored.ExpiresAt.Before(now) {
			delete(m.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

// mockDateStorage is a mock implementation of DateStorage for testing
type mockDateStorage struct {
	records  map[string]*models.DateRecord // record ID -> DateRecord
	addError error
	getError error
}

func newMockDateStorage() *mockDateStorage {
	return &mockDateStorage{records: make(map[string]*models.DateRecord)}
}

func (m *mockDateStorage) AddDate(ctx context.Context, record *models.DateRecord) error {
	if m.addError != nil {
		return m.addError
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockDateStorage) GetUserDates(ctx context.Context, userID string) ([]*models.DateRecord, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	records := []*models.DateRecord{}
	for _, record := range m.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *mockDateStorage) DeleteDate(ctx context.Context, userID, recordID string) error {
	record, ok := m.records[recordID]
	if !ok || record.UserID != userID {
		return storage.ErrDateNotFound
	}
	delete(m.records, recordID)
	return nil
}

func (m *mockDateStorage) DeleteDateByValue(ctx context.Context, userID, date string) error {
	var oldest *models.DateRecord
	for _, record := range m.records {
		if record.UserID != userID || record.Date != date {
			continue
		}
		if oldest == nil ||
			record.TrackedAt.Before(oldest.TrackedAt) ||
			(record.TrackedAt.Equal(oldest.TrackedAt) && record.ID < oldest.ID) {
			oldest = record
		}
	}
	if oldest == nil {
		return storage.ErrDateNotFound
	}
	delete(m.records, oldest.ID)
	return nil
}

func (m *mockDateStorage) DeleteUserDates(ctx context.Context, userID string) (int, error) {
	deleted := 0
	for id, record := range m.records {
		if record.UserID == userID {
			delete(m.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockDateStorage) UpdateDate(ctx context.Context, userID, recordID, date string, trackedAt time.Time) error {
	record, ok := m.records[recordID]
	if !ok || record.UserID != userID {
		return storage.ErrDateNotFound
	}
	record.Date = date
	record.TrackedAt = trackedAt
	return nil
}
