package repository

import (
	"context"
	"errors"
	"time"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrContentNotFound = errors.New("content not found")
)

// PasswordResetTTL is how long a password reset token stays valid.
const PasswordResetTTL = time.Hour

// UserStore persists user accounts. Lookups by token report ErrUserNotFound for
// unknown and expired tokens alike.
type UserStore interface {
	Create(ctx context.Context, u model.NewUser) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	// VerifyEmail marks the holder of an unexpired verification token as verified
	// and clears the token.
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
	// MarkEmailVerified verifies the account unconditionally.
	MarkEmailVerified(ctx context.Context, email string) (*model.User, error)
	// SetPasswordResetToken stores token with an expiry of PasswordResetTTL from now.
	SetPasswordResetToken(ctx context.Context, email, token string) (*model.User, error)
	// FindByResetToken looks up the holder of an unexpired reset token without consuming it.
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	ResetPassword(ctx context.Context, token, passwordHash string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string) (*model.User, error)
}

// ContentStore persists content items.
type ContentStore interface {
	Create(ctx context.Context, userID string, f model.ContentFields) (*model.ContentItem, error)
	ListByUser(ctx context.Context, userID string) ([]model.ContentItem, error)
	ListPublic(ctx context.Context) ([]model.ContentItem, error)
	GetByID(ctx context.Context, id string) (*model.ContentItem, error)
	Update(ctx context.Context, id string, p model.ContentPatch) (*model.ContentItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// WaitlistStore persists landing page signups.
type WaitlistStore interface {
	// Add records the subscriber and reports whether the email was new.
	Add(ctx context.Context, sub model.Subscriber) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// newUserRecord builds the stored form of a freshly registered account.
func newUserRecord(id string, u model.NewUser, now time.Time) *model.User {
	token := u.EmailVerificationToken
	expires := u.EmailVerificationExpires
	rec := &model.User{
		ID:            id,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		EmailVerified: false,
		Settings:      model.DefaultSettings(),
		Billing:       model.DefaultBilling(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if token != "" {
		rec.EmailVerificationToken = &token
		rec.EmailVerificationExpires = &expires
	}
	return rec
}

func newContentRecord(id, userID string, f model.ContentFields, now time.Time) *model.ContentItem {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	item := &model.ContentItem{
		ID:           id,
		UserID:       userID,
		Title:        f.Title,
		Type:         f.Type,
		Source:       f.Source,
		Content:      f.Content,
		Tags:         tags,
		Conversation: f.Conversation,
		ImageURL:     f.ImageURL,
		CodeLanguage: f.CodeLanguage,
		IsPublic:     f.IsPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return item.Clone()
}

// tokenValid reports whether a pending token matches and has not yet expired.
// Expiry is strict: a token expiring exactly now is invalid.
func tokenValid(stored *string, expires *time.Time, token string, now time.Time) bool {
	return token != "" && stored != nil && *stored == token && expires != nil && expires.After(now)
}
