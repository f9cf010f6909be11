package transaction

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"lakshya/internal/shared/querycache"
)

// CacheKey scopes transaction reads in the query cache.
const CacheKey = "transactions"

const (
	defaultStaleTime     = 5 * time.Minute
	defaultRetryAttempts = 2
)

// API is the slice of the REST client this service needs.
type API interface {
	ListTransactions(ctx context.Context, token string) ([]Transaction, error)
	CreateTransaction(ctx context.Context, token string, params CreateParams) (*Transaction, error)
	DeleteTransaction(ctx context.Context, token, id string) (*DeleteResult, error)
}

// TokenSource supplies the bearer token for each call. An empty token is
// sent anyway; the server does the rejecting.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Options tune caching and read retries. Zero values take defaults.
type Options struct {
	StaleTime     time.Duration
	RetryAttempts int
}

// Service exposes the transaction operations: cached list reads, and
// mutations that invalidate the list.
type Service struct {
	api           API
	tokens        TokenSource
	cache         *querycache.Cache
	staleTime     time.Duration
	retryAttempts int
	log           *logrus.Logger
}

func NewService(api API, tokens TokenSource, cache *querycache.Cache, opts Options, log *logrus.Logger) *Service {
	if opts.StaleTime <= 0 {
		opts.StaleTime = defaultStaleTime
	}
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = defaultRetryAttempts
	}
	return &Service{
		api:           api,
		tokens:        tokens,
		cache:         cache,
		staleTime:     opts.StaleTime,
		retryAttempts: opts.RetryAttempts,
		log:           log,
	}
}

// List returns the transactions, served from cache while fresh. Concurrent
// calls share one network request; failed fetches are retried up to the
// configured attempt count before surfacing.
func (s *Service) List(ctx context.Context) ([]Transaction, error) {
	return querycache.Get(ctx, s.cache, CacheKey, s.staleTime,
		querycache.WithRetry(s.retryAttempts, s.fetch))
}

func (s *Service) fetch(ctx context.Context) ([]Transaction, error) {
	return s.api.ListTransactions(ctx, s.tokens.Token(ctx))
}

// Create submits a transaction. On success the list cache is invalidated so
// the next read refetches. Mutations are never retried.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	created, err := s.api.CreateTransaction(ctx, s.tokens.Token(ctx), params)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(CacheKey)
	s.log.WithField("id", created.ID).Debug("transaction created")
	return created, nil
}

// Delete removes a transaction by id and invalidates the list cache.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	result, err := s.api.DeleteTransaction(ctx, s.tokens.Token(ctx), id)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(CacheKey)
	s.log.WithField("id", id).Debug("transaction deleted")
	return result, nil
}
