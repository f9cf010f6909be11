// Package e2e wires the real client stack against the in-memory stub
// backend and a fake completion endpoint, covering the full path from a
// chat utterance to a persisted transaction.
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakshya/internal/auth"
	"lakshya/internal/domain/chat"
	"lakshya/internal/domain/milestone"
	"lakshya/internal/domain/transaction"
	"lakshya/internal/domain/user"
	"lakshya/internal/infrastructure/anthropic"
	"lakshya/internal/infrastructure/api"
	"lakshya/internal/infrastructure/keystore"
	"lakshya/internal/infrastructure/stubapi"
	"lakshya/internal/shared/i18n"
	"lakshya/internal/shared/logging"
	"lakshya/internal/shared/querycache"
)

type stack struct {
	session      *auth.Session
	users        *user.Service
	transactions *transaction.Service
	milestones   *milestone.Service
}

func newStack(t *testing.T, backendURL string) *stack {
	t.Helper()

	log := logging.Discard()
	session := auth.NewSession(keystore.NewMemory(), log)
	cache := querycache.New()
	client := api.NewClient(backendURL)

	return &stack{
		session:      session,
		users:        user.NewService(client, session, cache, log),
		transactions: transaction.NewService(client, session, cache, transaction.Options{}, log),
		milestones:   milestone.NewService(client, session, cache, log),
	}
}

// fakeModel answers every completion request with the given envelope.
func fakeModel(t *testing.T, envelope string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": envelope}},
		})
	}))
}

func TestRegisterListCreateDeleteRoundTrip(t *testing.T) {
	backend := httptest.NewServer(stubapi.New("e2e-secret").Handler())
	defer backend.Close()

	s := newStack(t, backend.URL)
	ctx := context.Background()

	// Unauthenticated list is rejected by the server, not the client.
	_, err := s.transactions.List(ctx)
	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)

	result, err := s.users.Register(ctx, user.RegisterParams{
		Phone:    "9876543210",
		Name:     "Asha",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, s.session.IsAuthenticated(ctx))

	me, err := s.users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)

	created, err := s.transactions.Create(ctx, transaction.CreateParams{
		PhoneNumber:     "9876543210",
		Amount:          -250,
		SpentCategory:   "Groceries",
		MethodOfPayment: "UPI",
		Receiver:        "BigBasket",
	})
	require.NoError(t, err)

	list, err := s.transactions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.True(t, list[0].IsExpense())

	// Creation invalidated the cache; deletion does too.
	_, err = s.transactions.Delete(ctx, created.ID)
	require.NoError(t, err)

	list, err = s.transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChatTurnPersistsTransactionEndToEnd(t *testing.T) {
	backend := httptest.NewServer(stubapi.New("e2e-secret").Handler())
	defer backend.Close()

	model := fakeModel(t, `{
		"json": {"phoneNumber": null, "amount": -500, "spentCategory": "Electronics", "methodeOfPayment": null, "receiver": "Croma"},
		"message": "Logged 500 spent at Croma."
	}`)
	defer model.Close()

	s := newStack(t, backend.URL)
	ctx := context.Background()

	_, err := s.users.Register(ctx, user.RegisterParams{Phone: "9876543210", Name: "Asha", Password: "pw"})
	require.NoError(t, err)

	ai := anthropic.NewClient(anthropic.Config{APIKey: "test-key", BaseURL: model.URL})
	chatSvc := chat.NewService(ai, s.transactions, i18n.NewBundle(), "en", logging.Discard())

	reply, ok := chatSvc.HandleTurn(ctx, "bought headphones for 500 at Croma")
	require.True(t, ok)
	assert.Equal(t, "Logged 500 spent at Croma.", reply.Text)
	require.NotNil(t, reply.Data)

	list, err := s.transactions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Croma", list[0].Receiver)
	assert.Equal(t, float64(-500), list[0].Amount)
	// Absent fields arrive as the sentinel, not as empty strings.
	assert.Equal(t, transaction.Unknown, list[0].PhoneNumber)
	assert.Equal(t, transaction.Unknown, list[0].MethodOfPayment)
}

func TestMalformedModelOutputLeavesBackendUntouched(t *testing.T) {
	backend := httptest.NewServer(stubapi.New("e2e-secret").Handler())
	defer backend.Close()

	model := fakeModel(t, "Happy to help! Here's what I understood:")
	defer model.Close()

	s := newStack(t, backend.URL)
	ctx := context.Background()

	_, err := s.users.Register(ctx, user.RegisterParams{Phone: "9876543210", Name: "Asha", Password: "pw"})
	require.NoError(t, err)

	ai := anthropic.NewClient(anthropic.Config{APIKey: "test-key", BaseURL: model.URL})
	chatSvc := chat.NewService(ai, s.transactions, i18n.NewBundle(), "en", logging.Discard())

	reply, ok := chatSvc.HandleTurn(ctx, "spent something somewhere")
	require.True(t, ok)
	bundle := i18n.NewBundle()
	assert.Equal(t, bundle.T("en", i18n.KeyTurnFailed), reply.Text)

	list, err := s.transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMilestoneRoundTrip(t *testing.T) {
	backend := httptest.NewServer(stubapi.New("e2e-secret").Handler())
	defer backend.Close()

	s := newStack(t, backend.URL)
	ctx := context.Background()

	_, err := s.users.Register(ctx, user.RegisterParams{Phone: "9876543210", Name: "Asha", Password: "pw"})
	require.NoError(t, err)

	_, err = s.milestones.Create(ctx, milestone.CreateParams{
		SavedAmount: 1000,
		GoalAmount:  4000,
		Duration:    "6 months",
	})
	require.NoError(t, err)

	list, err := s.milestones.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0.25, list[0].Progress())
}
