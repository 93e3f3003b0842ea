package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ctx = context.Background()

// SessionUser is the denormalized snapshot copied into the session at login
// and refreshed whenever the profile changes. It is never the source of
// truth for the underlying user record.
type SessionUser struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// Flash is a one-shot notification: written once, surfaced on the next
// page-shaped response, then gone.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SessionManager persists session projections and flash messages in Redis.
type SessionManager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionManager(rdb *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "sb:sess:" + sessionID
}

func flashKey(sessionID string) string {
	return "sb:flash:" + sessionID
}

// Create stores a fresh session and returns its ID.
func (s *SessionManager) Create(user SessionUser) (string, error) {
	sessionID := uuid.NewString()
	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Get returns the stored projection, or nil when the session is absent or
// expired. The two cases are deliberately indistinguishable.
func (s *SessionManager) Get(sessionID string) (*SessionUser, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh overwrites the projection after the user record changed fields
// the session carries.
func (s *SessionManager) Refresh(sessionID string, user SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sessionID), data, s.ttl).Err()
}

// Destroy removes the session and any pending flash.
func (s *SessionManager) Destroy(sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID), flashKey(sessionID)).Err()
}

// SetFlash stores the one-shot notification for the session.
func (s *SessionManager) SetFlash(sessionID string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, flashKey(sessionID), data, s.ttl).Err()
}

// PopFlash returns the pending flash and clears it, or nil when none is
// set.
func (s *SessionManager) PopFlash(sessionID string) (*Flash, error) {
	data, err := s.rdb.Get(ctx, flashKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = s.rdb.Del(ctx, flashKey(sessionID)).Err()
	var flash Flash
	if err := json.Unmarshal(data, &flash); err != nil {
		return nil, err
	}
	return &flash, nil
}
