package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

const userColumns = `id, email, name, password_hash, email_verified,
	email_verification_token, email_verification_expires,
	password_reset_token, password_reset_expires,
	two_factor_enabled, two_factor_secret, last_login,
	settings, profile, billing, created_at, updated_at`

// UserRepository is the MySQL implementation of UserStore.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, u model.NewUser) (*model.User, error) {
	user := newUserRecord(uuid.NewString(), u, r.now().UTC())

	settings, profile, billing, err := marshalUserDocs(user)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (id, email, name, password_hash, email_verified,
		email_verification_token, email_verification_expires,
		two_factor_enabled, settings, profile, billing, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.EmailVerified,
		user.EmailVerificationToken, user.EmailVerificationExpires,
		user.TwoFactorEnabled, settings, profile, billing, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *UserRepository) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	return r.mutate(ctx, `WHERE id = ?`, []any{id}, func(u *model.User) {
		upd.Apply(u)
	})
}

func (r *UserRepository) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	where := `WHERE email_verification_token = ? AND email_verification_expires > ?`
	return r.mutate(ctx, where, []any{token, r.now().UTC()}, func(u *model.User) {
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
	})
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) (*model.User, error) {
	return r.mutate(ctx, `WHERE email = ?`, []any{email}, func(u *model.User) {
		u.EmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpires = nil
	})
}

func (r *UserRepository) SetPasswordResetToken(ctx context.Context, email, token string) (*model.User, error) {
	expires := r.now().Add(PasswordResetTTL).UTC()
	return r.mutate(ctx, `WHERE email = ?`, []any{email}, func(u *model.User) {
		u.PasswordResetToken = &token
		u.PasswordResetExpires = &expires
	})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = ? AND password_reset_expires > ?`
	return scanUser(r.db.QueryRowContext(ctx, query, token, r.now().UTC()))
}

func (r *UserRepository) ResetPassword(ctx context.Context, token, passwordHash string) (*model.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	where := `WHERE password_reset_token = ? AND password_reset_expires > ?`
	return r.mutate(ctx, where, []any{token, r.now().UTC()}, func(u *model.User) {
		u.PasswordHash = passwordHash
		u.PasswordResetToken = nil
		u.PasswordResetExpires = nil
	})
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) (*model.User, error) {
	now := r.now().UTC()
	return r.mutate(ctx, `WHERE id = ?`, []any{id}, func(u *model.User) {
		u.LastLogin = &now
	})
}

// mutate locks the single row matching where, applies fn and writes every mutable column back.
func (r *UserRepository) mutate(ctx context.Context, where string, args []any, fn func(*model.User)) (*model.User, error) {
	var user *model.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		user, err = scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users `+where+` LIMIT 1 FOR UPDATE`, args...))
		if err != nil {
			return err
		}

		fn(user)
		user.UpdatedAt = r.now().UTC()

		settings, profile, billing, err := marshalUserDocs(user)
		if err != nil {
			return err
		}

		query := `UPDATE users SET name = ?, password_hash = ?, email_verified = ?,
			email_verification_token = ?, email_verification_expires = ?,
			password_reset_token = ?, password_reset_expires = ?,
			two_factor_enabled = ?, two_factor_secret = ?, last_login = ?,
			settings = ?, profile = ?, billing = ?, updated_at = ?
			WHERE id = ?`
		_, err = tx.ExecContext(ctx, query,
			user.Name, user.PasswordHash, user.EmailVerified,
			user.EmailVerificationToken, user.EmailVerificationExpires,
			user.PasswordResetToken, user.PasswordResetExpires,
			user.TwoFactorEnabled, user.TwoFactorSecret, user.LastLogin,
			settings, profile, billing, user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                           model.User
		verifyToken, resetToken     sql.NullString
		twoFactorSecret             sql.NullString
		verifyExpires, resetExpires sql.NullTime
		lastLogin                   sql.NullTime
		settings, profile, billing  []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.EmailVerified,
		&verifyToken, &verifyExpires,
		&resetToken, &resetExpires,
		&u.TwoFactorEnabled, &twoFactorSecret, &lastLogin,
		&settings, &profile, &billing, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.EmailVerificationToken = nullString(verifyToken)
	u.EmailVerificationExpires = nullTime(verifyExpires)
	u.PasswordResetToken = nullString(resetToken)
	u.PasswordResetExpires = nullTime(resetExpires)
	u.TwoFactorSecret = nullString(twoFactorSecret)
	u.LastLogin = nullTime(lastLogin)

	if err := unmarshalUserDocs(&u, settings, profile, billing); err != nil {
		return nil, err
	}
	return &u, nil
}

func marshalUserDocs(u *model.User) (settings, profile, billing []byte, err error) {
	if settings, err = json.Marshal(u.Settings); err != nil {
		return nil, nil, nil, fmt.Errorf("encode settings: %w", err)
	}
	if profile, err = json.Marshal(u.Profile); err != nil {
		return nil, nil, nil, fmt.Errorf("encode profile: %w", err)
	}
	if billing, err = json.Marshal(u.Billing); err != nil {
		return nil, nil, nil, fmt.Errorf("encode billing: %w", err)
	}
	return settings, profile, billing, nil
}

func unmarshalUserDocs(u *model.User, settings, profile, billing []byte) error {
	if err := json.Unmarshal(settings, &u.Settings); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if err := json.Unmarshal(profile, &u.Profile); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal(billing, &u.Billing); err != nil {
		return fmt.Errorf("decode billing: %w", err)
	}
	return nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
