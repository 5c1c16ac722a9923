package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool     { return &b }

func TestUserUpdate_ApplyMergesNestedFields(t *testing.T) {
	u := &User{
		Name:     "Alice",
		Settings: DefaultSettings(),
		Profile:  Profile{Bio: "AI enthusiast", Company: "Tech Corp"},
		Billing:  DefaultBilling(),
	}

	UserUpdate{
		Settings: &SettingsUpdate{Theme: strPtr("dark")},
		Profile:  &ProfileUpdate{Company: strPtr("Neural Labs")},
	}.Apply(u)

	assert.Equal(t, "Alice", u.Name, "untouched top-level field")
	assert.Equal(t, "dark", u.Settings.Theme)
	assert.True(t, u.Settings.Notifications, "untouched nested field")
	assert.Equal(t, []string{"ChatGPT", "Claude", "Midjourney"}, u.Settings.PreferredAIPlatforms)
	assert.Equal(t, "AI enthusiast", u.Profile.Bio)
	assert.Equal(t, "Neural Labs", u.Profile.Company)
	assert.Equal(t, PlanFree, u.Billing.Plan)
}

func TestUserUpdate_ApplyTopLevel(t *testing.T) {
	u := &User{Name: "Alice", Billing: DefaultBilling()}
	addr := &Address{Line1: "1 Main St", City: "SF", Country: "US"}

	UserUpdate{
		Name:             strPtr("Alice B."),
		TwoFactorEnabled: boolPtr(true),
		Billing:          &BillingUpdate{Address: addr},
	}.Apply(u)

	assert.Equal(t, "Alice B.", u.Name)
	assert.True(t, u.TwoFactorEnabled)
	require.NotNil(t, u.Billing.Address)
	assert.Equal(t, "1 Main St", u.Billing.Address.Line1)
	assert.Equal(t, PlanFree, u.Billing.Plan, "plan is not user editable")

	addr.Line1 = "changed"
	assert.Equal(t, "1 Main St", u.Billing.Address.Line1, "address must be copied")
}

func TestUser_SanitizeOmitsSecrets(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	u := &User{
		ID:                       "u1",
		Email:                    "alice@example.com",
		Name:                     "Alice",
		PasswordHash:             "$2a$12$hash",
		EmailVerificationToken:   strPtr("verify-token"),
		EmailVerificationExpires: &expires,
		PasswordResetToken:       strPtr("reset-token"),
		PasswordResetExpires:     &expires,
		TwoFactorSecret:          strPtr("totp-secret"),
		Settings:                 DefaultSettings(),
		Billing:                  DefaultBilling(),
	}

	data, err := json.Marshal(u.Sanitize())
	require.NoError(t, err)

	body := string(data)
	for _, secret := range []string{"$2a$12$hash", "verify-token", "reset-token", "totp-secret", "password\"", "Token\""} {
		assert.NotContains(t, body, secret)
	}
	assert.Contains(t, body, `"email":"alice@example.com"`)
	assert.Contains(t, body, `"emailVerified":false`)
}

func TestUser_SanitizeKeepsTimestamps(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)
	u := &User{ID: "u1", CreatedAt: created, UpdatedAt: updated}

	resp := u.Sanitize()
	assert.Equal(t, created, resp.CreatedAt)
	assert.Equal(t, updated, resp.UpdatedAt)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"updatedAt":"2025-01-02T04:04:05Z"`)
}

func TestUser_CloneIsDeep(t *testing.T) {
	token := "tok"
	u := &User{EmailVerificationToken: &token, Settings: DefaultSettings()}

	c := u.Clone()
	*c.EmailVerificationToken = "changed"
	c.Settings.PreferredAIPlatforms[0] = "changed"

	assert.Equal(t, "tok", *u.EmailVerificationToken)
	assert.Equal(t, "ChatGPT", u.Settings.PreferredAIPlatforms[0])
}
