package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newPendingUser(email, token string, expires time.Time) model.NewUser {
	return model.NewUser{
		Email:                    email,
		Name:                     "Alice",
		PasswordHash:             "hash",
		EmailVerificationToken:   token,
		EmailVerificationExpires: expires,
	}
}

func TestMemoryUserStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	created, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(24*time.Hour)))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.EmailVerified)
	assert.Equal(t, model.DefaultSettings(), created.Settings)
	assert.Equal(t, model.PlanFree, created.Billing.Plan)
	assert.Equal(t, clock.Now(), created.CreatedAt)

	byEmail, err := store.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.io", byID.Email)

	_, err = store.FindByEmail(ctx, "ALICE@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "a", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	_, err = store.Create(ctx, newPendingUser("alice@x.io", "b", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	created, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	created.Name = "Mallory"
	created.Settings.PreferredAIPlatforms[0] = "Other"

	stored, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "ChatGPT", stored.Settings.PreferredAIPlatforms[0])
}

func TestMemoryUserStore_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	_, err = store.VerifyEmail(ctx, "wrong")
	assert.ErrorIs(t, err, ErrUserNotFound)

	verified, err := store.VerifyEmail(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.EmailVerificationToken)
	assert.Nil(t, verified.EmailVerificationExpires)

	_, err = store.VerifyEmail(ctx, "tok")
	assert.ErrorIs(t, err, ErrUserNotFound, "a token can only be used once")

	_, err = store.VerifyEmail(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_VerifyEmailExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	_, err = store.VerifyEmail(ctx, "tok")
	assert.ErrorIs(t, err, ErrUserNotFound, "a token expiring exactly now is invalid")

	u, err := store.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.False(t, u.EmailVerified)
}

func TestMemoryUserStore_MarkEmailVerified(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	u, err := store.MarkEmailVerified(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Nil(t, u.EmailVerificationToken)

	_, err = store.MarkEmailVerified(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_PasswordReset(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	u, err := store.SetPasswordResetToken(ctx, "alice@x.io", "reset-1")
	require.NoError(t, err)
	require.NotNil(t, u.PasswordResetExpires)
	assert.Equal(t, clock.Now().Add(PasswordResetTTL), *u.PasswordResetExpires)

	_, err = store.SetPasswordResetToken(ctx, "nobody@x.io", "reset-2")
	assert.ErrorIs(t, err, ErrUserNotFound)

	clock.Advance(30 * time.Minute)
	holder, err := store.FindByResetToken(ctx, "reset-1")
	require.NoError(t, err)
	assert.Equal(t, "hash", holder.PasswordHash)
	_, err = store.FindByResetToken(ctx, "reset-unknown")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err = store.ResetPassword(ctx, "reset-1", "new-hash")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", u.PasswordHash)
	assert.Nil(t, u.PasswordResetToken)
	assert.Nil(t, u.PasswordResetExpires)

	_, err = store.ResetPassword(ctx, "reset-1", "other-hash")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_PasswordResetExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(24*time.Hour)))
	require.NoError(t, err)
	_, err = store.SetPasswordResetToken(ctx, "alice@x.io", "reset-1")
	require.NoError(t, err)

	clock.Advance(PasswordResetTTL)
	_, err = store.FindByResetToken(ctx, "reset-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	clock.Advance(time.Second)
	_, err = store.ResetPassword(ctx, "reset-1", "new-hash")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := store.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestMemoryUserStore_Update(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	created, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(time.Hour)))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	name := "Alice Liddell"
	theme := "dark"
	updated, err := store.Update(ctx, created.ID, model.UserUpdate{
		Name:     &name,
		Settings: &model.SettingsUpdate{Theme: &theme},
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "dark", updated.Settings.Theme)
	assert.True(t, updated.Settings.Notifications)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = store.Update(ctx, "missing", model.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_UpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryUserStoreWithClock(clock.Now)

	created, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", clock.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Nil(t, created.LastLogin)

	u, err := store.UpdateLastLogin(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, clock.Now(), *u.LastLogin)
}

func TestMemoryUserStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	_, err := store.Create(ctx, newPendingUser("alice@x.io", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	store.Reset()
	_, err = store.FindByEmail(ctx, "alice@x.io")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = store.Create(ctx, newPendingUser("alice@x.io", "tok", time.Now().Add(time.Hour)))
	assert.NoError(t, err)
}

func TestMemoryUserStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Create(ctx, newPendingUser("race@x.io", "tok", time.Now().Add(time.Hour))); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}
