package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuralhub/neuralhub-go/internal/model"
	"github.com/neuralhub/neuralhub-go/internal/repository"
)

const testSecret = "test-secret"

type sentLink struct {
	To, Name, Link string
}

// recordingNotifier keeps every link it was asked to deliver.
type recordingNotifier struct {
	mu            sync.Mutex
	verifications []sentLink
	resets        []sentLink
	err           error
}

func (n *recordingNotifier) SendVerification(_ context.Context, to, name, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifications = append(n.verifications, sentLink{to, name, link})
	return n.err
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, to, name, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, sentLink{to, name, link})
	return n.err
}

func (n *recordingNotifier) lastVerificationToken(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.verifications)
	return tokenFromLink(t, n.verifications[len(n.verifications)-1].Link)
}

func (n *recordingNotifier) lastResetToken(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.resets)
	return tokenFromLink(t, n.resets[len(n.resets)-1].Link)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	svc      *AuthService
	users    *repository.MemoryUserStore
	notifier *recordingNotifier
	clock    *testClock
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := &testClock{t: time.Now().UTC()}
	users := repository.NewMemoryUserStoreWithClock(clock.Now)
	notifier := &recordingNotifier{}
	svc := NewAuthService(users, notifier, AuthOptions{
		JWTSecret:          testSecret,
		TokenExpiry:        time.Hour,
		HashCost:           bcrypt.MinCost,
		AppURL:             "http://localhost:3000/",
		VerificationBypass: true,
	}, discardLogger())
	svc.now = clock.Now
	return &authFixture{svc: svc, users: users, notifier: notifier, clock: clock}
}

// registerVerified registers an account and verifies it through the emitted link.
func (f *authFixture) registerVerified(t *testing.T, email, password, name string) model.UserResponse {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, model.RegisterRequest{Email: email, Password: password, Name: name})
	require.NoError(t, err)
	user, err := f.svc.VerifyEmail(ctx, f.notifier.lastVerificationToken(t))
	require.NoError(t, err)
	return user
}
