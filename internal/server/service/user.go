package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dragchess/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
)

// ErrInvalidCredentials hides whether the user or the password was wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// User represents a registered user account
type User struct {
	UserID    string
	Username  string
	Email     string
	CreatedAt time.Time
}

func userFromRecord(r *storage.UserRecord) *User {
	return &User{
		UserID:    r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// CreateUser registers a temporary account that expires after TempUserTTL
func (s *Service) CreateUser(username, email, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	expires := now.Add(TempUserTTL)
	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AccountType:  storage.AccountTemp,
		CreatedAt:    now,
		ExpiresAt:    &expires,
	}
	if err = s.store.CreateUser(record); err != nil {
		return nil, err
	}

	return userFromRecord(&record), nil
}

// AuthenticateUser verifies credentials by username or email
func (s *Service) AuthenticateUser(identifier, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	var record *storage.UserRecord
	var err error
	if strings.Contains(identifier, "@") {
		record, err = s.store.GetUserByEmail(identifier)
	} else {
		record, err = s.store.GetUserByUsername(identifier)
	}
	if err != nil {
		// Hash anyway so unknown users take as long as wrong passwords
		auth.HashPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.store.UpdateUserLastLogin(record.UserID, time.Now().UTC())
	return userFromRecord(record), nil
}

// GetUserByID retrieves user information by user ID
func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return userFromRecord(record), nil
}

// GenerateUserToken starts a login session and signs a JWT bound to it
func (s *Service) GenerateUserToken(userID string) (string, time.Time, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	session := storage.SessionRecord{
		SessionID: uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.CreateSession(session); err != nil {
		return "", time.Time{}, err
	}

	claims := map[string]any{
		"username": user.Username,
		"sid":      session.SessionID,
	}
	token, err := auth.GenerateHS256Token(s.jwtSecret, userID, claims, SessionTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, session.ExpiresAt, nil
}

// ValidateToken verifies the signature and that the login was not ended
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	userID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return "", nil, err
	}
	if s.store == nil {
		return "", nil, ErrStorageDisabled
	}

	sid, _ := claims["sid"].(string)
	valid, err := s.store.IsSessionValid(sid)
	if err != nil {
		return "", nil, fmt.Errorf("session lookup: %w", err)
	}
	if !valid {
		return "", nil, fmt.Errorf("session ended")
	}
	return userID, claims, nil
}

// Logout ends the user's session, invalidating issued tokens
func (s *Service) Logout(userID string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	return s.store.DeleteSessionByUserID(userID)
}
