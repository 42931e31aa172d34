package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kreasihub/auth/auth"
)

// captureNotifier records sent messages instead of delivering them.
type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	msgType   string
	recipient string
	name      string
	actionURL string
}

func (n *captureNotifier) Send(_ context.Context, msgType, recipient, name, actionURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMail{msgType: msgType, recipient: recipient, name: name, actionURL: actionURL})
	return nil
}

func (n *captureNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// testEnv bundles a service wired against in-memory stores.
type testEnv struct {
	service  *auth.Service
	issuer   *auth.TokenIssuer
	store    *auth.MemoryCredentialStore
	revoked  *auth.MemoryRevocationStore
	notifier *captureNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(testTokenConfig())
	require.NoError(t, err)

	store := auth.NewMemoryCredentialStore()
	revoked := auth.NewMemoryRevocationStore()
	notifier := &captureNotifier{}
	service := auth.NewService(store, revoked, issuer, notifier, "https://app.example.com",
		auth.WithHasher(auth.NewHasher(bcrypt.MinCost)))

	return &testEnv{
		service:  service,
		issuer:   issuer,
		store:    store,
		revoked:  revoked,
		notifier: notifier,
	}
}

// register creates a confirmed password account ready for sign-in tests.
func (e *testEnv) register(t *testing.T, email, password string) *auth.Account {
	t.Helper()

	account, err := e.service.Register(context.Background(), email, "Test User", password)
	require.NoError(t, err)
	require.NoError(t, e.store.UpdateConfirmed(context.Background(), account.ID, true))
	account.IsConfirmed = true
	return account
}
