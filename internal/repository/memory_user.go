package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

// MemoryUserStore is a process-local UserStore. Each method holds the lock for
// its whole duration, so no partial update is ever observable.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryUserStore creates an empty MemoryUserStore using the wall clock.
func NewMemoryUserStore() *MemoryUserStore {
	return NewMemoryUserStoreWithClock(time.Now)
}

// NewMemoryUserStoreWithClock creates an empty MemoryUserStore with a custom clock.
func NewMemoryUserStoreWithClock(now func() time.Time) *MemoryUserStore {
	s := &MemoryUserStore{now: now}
	s.Reset()
	return s
}

// Reset drops every stored user.
func (s *MemoryUserStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*model.User)
	s.byEmail = make(map[string]string)
}

func (s *MemoryUserStore) Create(_ context.Context, u model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	rec := newUserRecord(uuid.NewString(), u, s.now().UTC())
	s.byID[rec.ID] = rec
	s.byEmail[rec.Email] = rec.ID
	return rec.Clone(), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryUserStore) Update(_ context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	return s.mutate(func() *model.User { return s.byID[id] }, func(u *model.User) {
		upd.Apply(u)
	})
}

func (s *MemoryUserStore) VerifyEmail(_ context.Context, token string) (*model.User, error) {
	now := s.now()
	return s.mutate(func() *model.User {
		return s.findLocked(func(u *model.User) bool {
			return tokenValid(u.EmailVerificationToken, u.EmailVerificationExpires, token, now)
		})
	}, func(u *model.User) {
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
	})
}

func (s *MemoryUserStore) MarkEmailVerified(_ context.Context, email string) (*model.User, error) {
	return s.mutate(func() *model.User { return s.byID[s.byEmail[email]] }, func(u *model.User) {
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
	})
}

func (s *MemoryUserStore) SetPasswordResetToken(_ context.Context, email, token string) (*model.User, error) {
	expires := s.now().Add(PasswordResetTTL).UTC()
	return s.mutate(func() *model.User { return s.byID[s.byEmail[email]] }, func(u *model.User) {
		u.PasswordResetToken = &token
		u.PasswordResetExpires = &expires
	})
}

func (s *MemoryUserStore) FindByResetToken(_ context.Context, token string) (*model.User, error) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findLocked(func(u *model.User) bool {
		return tokenValid(u.PasswordResetToken, u.PasswordResetExpires, token, now)
	})
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryUserStore) ResetPassword(_ context.Context, token, passwordHash string) (*model.User, error) {
	now := s.now()
	return s.mutate(func() *model.User {
		return s.findLocked(func(u *model.User) bool {
			return tokenValid(u.PasswordResetToken, u.PasswordResetExpires, token, now)
		})
	}, func(u *model.User) {
		u.PasswordHash = passwordHash
		u.PasswordResetToken = nil
		u.PasswordResetExpires = nil
	})
}

func (s *MemoryUserStore) UpdateLastLogin(_ context.Context, id string) (*model.User, error) {
	now := s.now().UTC()
	return s.mutate(func() *model.User { return s.byID[id] }, func(u *model.User) {
		u.LastLogin = &now
	})
}

// mutate locates a user and applies fn under the write lock.
func (s *MemoryUserStore) mutate(find func() *model.User, fn func(*model.User)) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := find()
	if u == nil {
		return nil, ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = s.now().UTC()
	return u.Clone(), nil
}

func (s *MemoryUserStore) findLocked(match func(*model.User) bool) *model.User {
	for _, u := range s.byID {
		if match(u) {
			return u
		}
	}
	return nil
}
