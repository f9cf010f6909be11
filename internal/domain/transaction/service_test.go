package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"lakshya/internal/shared/logging"
	"lakshya/internal/shared/querycache"
)

type mockAPI struct {
	ListTransactionsFunc  func(ctx context.Context, token string) ([]Transaction, error)
	CreateTransactionFunc func(ctx context.Context, token string, params CreateParams) (*Transaction, error)
	DeleteTransactionFunc func(ctx context.Context, token, id string) (*DeleteResult, error)

	listCalls int
	lastToken string
}

func (m *mockAPI) ListTransactions(ctx context.Context, token string) ([]Transaction, error) {
	m.listCalls++
	m.lastToken = token
	return m.ListTransactionsFunc(ctx, token)
}

func (m *mockAPI) CreateTransaction(ctx context.Context, token string, params CreateParams) (*Transaction, error) {
	m.lastToken = token
	return m.CreateTransactionFunc(ctx, token, params)
}

func (m *mockAPI) DeleteTransaction(ctx context.Context, token, id string) (*DeleteResult, error) {
	m.lastToken = token
	return m.DeleteTransactionFunc(ctx, token, id)
}

type staticToken string

func (s staticToken) Token(ctx context.Context) string { return string(s) }

func TestListServesFromCache(t *testing.T) {
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return []Transaction{{ID: "1", Amount: -100}}, nil
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{}, logging.Discard())

	for i := 0; i < 3; i++ {
		list, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("List %d failed: %v", i, err)
		}
		if len(list) != 1 {
			t.Fatalf("List %d returned %d items", i, len(list))
		}
	}

	if api.listCalls != 1 {
		t.Errorf("expected 1 network call, got %d", api.listCalls)
	}
	if api.lastToken != "tok" {
		t.Errorf("token = %q", api.lastToken)
	}
}

func TestCreateInvalidatesListCache(t *testing.T) {
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return nil, nil
		},
		CreateTransactionFunc: func(ctx context.Context, token string, params CreateParams) (*Transaction, error) {
			return &Transaction{ID: "new"}, nil
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{}, logging.Discard())

	svc.List(context.Background())
	if _, err := svc.Create(context.Background(), CreateParams{Amount: -50}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	svc.List(context.Background())

	if api.listCalls != 2 {
		t.Errorf("expected refetch after create, got %d list calls", api.listCalls)
	}
}

func TestCreateFailureLeavesCacheIntact(t *testing.T) {
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return nil, nil
		},
		CreateTransactionFunc: func(ctx context.Context, token string, params CreateParams) (*Transaction, error) {
			return nil, errors.New("rejected")
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{}, logging.Discard())

	svc.List(context.Background())
	if _, err := svc.Create(context.Background(), CreateParams{}); err == nil {
		t.Fatal("expected create error")
	}
	svc.List(context.Background())

	if api.listCalls != 1 {
		t.Errorf("failed create invalidated the cache: %d list calls", api.listCalls)
	}
}

func TestDeleteInvalidatesListCache(t *testing.T) {
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return nil, nil
		},
		DeleteTransactionFunc: func(ctx context.Context, token, id string) (*DeleteResult, error) {
			if id != "42" {
				t.Errorf("delete id = %q", id)
			}
			return &DeleteResult{Message: "Transaction deleted"}, nil
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{}, logging.Discard())

	svc.List(context.Background())
	result, err := svc.Delete(context.Background(), "42")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if result.Message != "Transaction deleted" {
		t.Errorf("message = %q", result.Message)
	}
	svc.List(context.Background())

	if api.listCalls != 2 {
		t.Errorf("expected refetch after delete, got %d list calls", api.listCalls)
	}
}

func TestListRetriesTransientFailure(t *testing.T) {
	api := &mockAPI{}
	api.ListTransactionsFunc = func(ctx context.Context, token string) ([]Transaction, error) {
		if api.listCalls == 1 {
			return nil, errors.New("transient")
		}
		return []Transaction{{ID: "1"}}, nil
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{RetryAttempts: 2}, logging.Discard())

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed despite retry: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d items", len(list))
	}
	if api.listCalls != 2 {
		t.Errorf("expected 2 attempts, got %d", api.listCalls)
	}
}

func TestListExhaustedRetriesSurfaceError(t *testing.T) {
	wantErr := errors.New("down")
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return nil, wantErr
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(), Options{RetryAttempts: 2}, logging.Discard())

	_, err := svc.List(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if api.listCalls != 2 {
		t.Errorf("expected 2 attempts, got %d", api.listCalls)
	}
}

func TestStaleTimeOptionRespected(t *testing.T) {
	api := &mockAPI{
		ListTransactionsFunc: func(ctx context.Context, token string) ([]Transaction, error) {
			return nil, nil
		},
	}
	svc := NewService(api, staticToken("tok"), querycache.New(),
		Options{StaleTime: time.Nanosecond}, logging.Discard())

	svc.List(context.Background())
	time.Sleep(time.Millisecond)
	svc.List(context.Background())

	if api.listCalls != 2 {
		t.Errorf("expected 2 fetches past the stale window, got %d", api.listCalls)
	}
}
