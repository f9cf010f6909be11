package user

import (
	"context"
	"errors"
	"testing"

	"lakshya/internal/auth"
	"lakshya/internal/infrastructure/keystore"
	"lakshya/internal/shared/logging"
	"lakshya/internal/shared/querycache"
)

type mockAPI struct {
	MeFunc       func(ctx context.Context, token string) (*User, error)
	RegisterFunc func(ctx context.Context, params RegisterParams) (*RegisterResult, error)

	meCalls int
}

func (m *mockAPI) Me(ctx context.Context, token string) (*User, error) {
	m.meCalls++
	return m.MeFunc(ctx, token)
}

func (m *mockAPI) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	return m.RegisterFunc(ctx, params)
}

func newTestService(api *mockAPI) (*Service, *auth.Session) {
	session := auth.NewSession(keystore.NewMemory(), logging.Discard())
	return NewService(api, session, querycache.New(), logging.Discard()), session
}

func TestRegisterPersistsSession(t *testing.T) {
	api := &mockAPI{
		RegisterFunc: func(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
			return &RegisterResult{Success: true, Token: "issued-token", Message: "Registration successful!"}, nil
		},
	}
	svc, session := newTestService(api)

	ctx := context.Background()
	result, err := svc.Register(ctx, RegisterParams{Phone: "9876543210", Name: "Asha", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !result.Success {
		t.Errorf("result = %+v", result)
	}

	if got := session.Token(ctx); got != "issued-token" {
		t.Errorf("stored token = %q", got)
	}
	if !session.IsAuthenticated(ctx) {
		t.Error("session not authenticated after register")
	}

	profile := session.Profile(ctx)
	if profile.Name != "Asha" || profile.PhoneNumber != "9876543210" {
		t.Errorf("stored profile = %+v", profile)
	}
}

func TestRegisterFailureLeavesSessionEmpty(t *testing.T) {
	api := &mockAPI{
		RegisterFunc: func(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
			return nil, errors.New("invalid credentials")
		},
	}
	svc, session := newTestService(api)

	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterParams{Phone: "1", Password: "wrong"}); err == nil {
		t.Fatal("expected register error")
	}
	if session.IsAuthenticated(ctx) {
		t.Error("failed register left a token behind")
	}
}

func TestMeUsesStoredToken(t *testing.T) {
	api := &mockAPI{
		MeFunc: func(ctx context.Context, token string) (*User, error) {
			if token != "stored" {
				t.Errorf("token = %q", token)
			}
			return &User{ID: "u1", Name: "Asha", PhoneNumber: "9876543210"}, nil
		},
	}
	svc, session := newTestService(api)

	ctx := context.Background()
	session.SetToken(ctx, "stored")

	me, err := svc.Me(ctx)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Name != "Asha" {
		t.Errorf("me = %+v", me)
	}
}

func TestMeRefetchesEveryRead(t *testing.T) {
	// Profile reads have no stale interval.
	api := &mockAPI{
		MeFunc: func(ctx context.Context, token string) (*User, error) {
			return &User{ID: "u1"}, nil
		},
	}
	svc, _ := newTestService(api)

	ctx := context.Background()
	svc.Me(ctx)
	svc.Me(ctx)

	if api.meCalls != 2 {
		t.Errorf("expected 2 fetches, got %d", api.meCalls)
	}
}
