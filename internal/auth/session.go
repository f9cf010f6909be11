// Package auth exposes the stored credentials to the rest of the client.
package auth

import (
	"context"

	"github.com/sirupsen/logrus"

	"lakshya/internal/infrastructure/keystore"
)

// Keystore keys. Fixed; changing them orphans existing sessions.
const (
	tokenKey = "auth_token"
	nameKey  = "user_name"
	phoneKey = "phone_number"
)

// Profile is the cached slice of the user kept next to the token.
type Profile struct {
	Name        string
	PhoneNumber string
}

// Session reads and writes the auth session in the credential store.
type Session struct {
	store keystore.Store
	log   *logrus.Logger
}

func NewSession(store keystore.Store, log *logrus.Logger) *Session {
	return &Session{store: store, log: log}
}

// Token returns the stored auth token, or "" when none is stored. Store
// errors are logged and read as an absent token; callers never fail here.
func (s *Session) Token(ctx context.Context) string {
	token, err := s.store.GetString(ctx, tokenKey)
	if err != nil {
		s.log.WithError(err).Error("failed to read auth token")
		return ""
	}
	return token
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, tokenKey, token)
}

func (s *Session) RemoveToken(ctx context.Context) error {
	return s.store.Delete(ctx, tokenKey)
}

// IsAuthenticated is exactly "a token is present". It says nothing about the
// token still being accepted by the server.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SaveProfile stores the display name and phone number alongside the token.
func (s *Session) SaveProfile(ctx context.Context, p Profile) error {
	if err := s.store.Set(ctx, nameKey, p.Name); err != nil {
		return err
	}
	return s.store.Set(ctx, phoneKey, p.PhoneNumber)
}

// Profile returns the cached profile fields. Missing fields read as "".
func (s *Session) Profile(ctx context.Context) Profile {
	name, err := s.store.GetString(ctx, nameKey)
	if err != nil {
		s.log.WithError(err).Error("failed to read user name")
	}
	phone, err := s.store.GetString(ctx, phoneKey)
	if err != nil {
		s.log.WithError(err).Error("failed to read phone number")
	}
	return Profile{Name: name, PhoneNumber: phone}
}

// Clear removes the whole session. Used on logout.
func (s *Session) Clear(ctx context.Context) error {
	for _, key := range []string{tokenKey, nameKey, phoneKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
