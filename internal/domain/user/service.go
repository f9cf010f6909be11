package user

import (
	"context"

	"github.com/sirupsen/logrus"

	"lakshya/internal/auth"
	"lakshya/internal/shared/querycache"
)

// CacheKey scopes profile reads in the query cache.
const CacheKey = "userData"

const defaultRetryAttempts = 2

type API interface {
	Me(ctx context.Context, token string) (*User, error)
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)
}

// SessionWriter is where a successful registration lands its credentials.
type SessionWriter interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	SaveProfile(ctx context.Context, p auth.Profile) error
}

// Service exposes the current-user read and registration.
type Service struct {
	api           API
	session       SessionWriter
	cache         *querycache.Cache
	retryAttempts int
	log           *logrus.Logger
}

func NewService(api API, session SessionWriter, cache *querycache.Cache, log *logrus.Logger) *Service {
	return &Service{
		api:           api,
		session:       session,
		cache:         cache,
		retryAttempts: defaultRetryAttempts,
		log:           log,
	}
}

// Me returns the authenticated account's profile. Concurrent calls share
// one network request; there is no stale interval on profile reads.
func (s *Service) Me(ctx context.Context) (*User, error) {
	return querycache.Get(ctx, s.cache, CacheKey, 0,
		querycache.WithRetry(s.retryAttempts, s.fetch))
}

func (s *Service) fetch(ctx context.Context) (*User, error) {
	return s.api.Me(ctx, s.session.Token(ctx))
}

// Register creates (or logs into) an account and persists the session on
// success. The profile cache is invalidated so the next Me sees the new
// account.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	result, err := s.api.Register(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.session.SetToken(ctx, result.Token); err != nil {
		return nil, err
	}
	if err := s.session.SaveProfile(ctx, auth.Profile{Name: params.Name, PhoneNumber: params.Phone}); err != nil {
		return nil, err
	}

	s.cache.Invalidate(CacheKey)
	s.log.WithField("phone", params.Phone).Info("registered")
	return result, nil
}
