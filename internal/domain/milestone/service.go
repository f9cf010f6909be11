package milestone

import (
	"context"

	"github.com/sirupsen/logrus"

	"lakshya/internal/shared/querycache"
)

// CacheKey scopes milestone reads in the query cache.
const CacheKey = "milestones"

const defaultRetryAttempts = 2

type API interface {
	ListMilestones(ctx context.Context, token string) ([]Milestone, error)
	CreateMilestone(ctx context.Context, token string, params CreateParams) (*Milestone, error)
}

type TokenSource interface {
	Token(ctx context.Context) string
}

// Service exposes milestone reads and creation. Milestone reads have no
// stale interval: every read past an in-flight one goes to the network.
type Service struct {
	api           API
	tokens        TokenSource
	cache         *querycache.Cache
	retryAttempts int
	log           *logrus.Logger
}

func NewService(api API, tokens TokenSource, cache *querycache.Cache, log *logrus.Logger) *Service {
	return &Service{
		api:           api,
		tokens:        tokens,
		cache:         cache,
		retryAttempts: defaultRetryAttempts,
		log:           log,
	}
}

// List returns all milestones. Concurrent calls share one network request.
func (s *Service) List(ctx context.Context) ([]Milestone, error) {
	return querycache.Get(ctx, s.cache, CacheKey, 0,
		querycache.WithRetry(s.retryAttempts, s.fetch))
}

func (s *Service) fetch(ctx context.Context) ([]Milestone, error) {
	return s.api.ListMilestones(ctx, s.tokens.Token(ctx))
}

// Create submits a milestone and invalidates the list cache on success.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Milestone, error) {
	created, err := s.api.CreateMilestone(ctx, s.tokens.Token(ctx), params)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(CacheKey)
	s.log.WithField("id", created.ID).Debug("milestone created")
	return created, nil
}
