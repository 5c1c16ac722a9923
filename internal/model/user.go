package model

import "time"

// Billing plans.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// User represents an account record as held by the user store.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string

	EmailVerified            bool
	EmailVerificationToken   *string
	EmailVerificationExpires *time.Time
	PasswordResetToken       *string
	PasswordResetExpires     *time.Time

	TwoFactorEnabled bool
	TwoFactorSecret  *string
	LastLogin        *time.Time

	Settings Settings
	Profile  Profile
	Billing  Billing

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settings holds user preferences.
type Settings struct {
	Theme                string   `json:"theme"`
	Notifications        bool     `json:"notifications"`
	EmailNotifications   bool     `json:"emailNotifications"`
	PreferredAIPlatforms []string `json:"preferredAIPlatforms"`
}

// Profile holds the public profile of a user.
type Profile struct {
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
}

// Billing holds plan information. Payment fields are populated by the payment provider only.
type Billing struct {
	Plan             string         `json:"plan"`
	StripeCustomerID string         `json:"stripeCustomerId,omitempty"`
	Address          *Address       `json:"address,omitempty"`
	PaymentMethod    *PaymentMethod `json:"paymentMethod,omitempty"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentMethod struct {
	Type  string `json:"type"`
	Last4 string `json:"last4"`
	Brand string `json:"brand"`
}

// DefaultSettings returns the preferences assigned to new accounts.
func DefaultSettings() Settings {
	return Settings{
		Theme:                "light",
		Notifications:        true,
		EmailNotifications:   true,
		PreferredAIPlatforms: []string{"ChatGPT", "Claude", "Midjourney"},
	}
}

// DefaultBilling returns the billing record assigned to new accounts.
func DefaultBilling() Billing {
	return Billing{Plan: PlanFree}
}

// NewUser carries the fields a store needs to create an account.
type NewUser struct {
	Email                    string
	Name                     string
	PasswordHash             string
	EmailVerificationToken   string
	EmailVerificationExpires time.Time
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	c.EmailVerificationToken = cloneString(u.EmailVerificationToken)
	c.EmailVerificationExpires = cloneTime(u.EmailVerificationExpires)
	c.PasswordResetToken = cloneString(u.PasswordResetToken)
	c.PasswordResetExpires = cloneTime(u.PasswordResetExpires)
	c.TwoFactorSecret = cloneString(u.TwoFactorSecret)
	c.LastLogin = cloneTime(u.LastLogin)
	c.Settings.PreferredAIPlatforms = append([]string(nil), u.Settings.PreferredAIPlatforms...)
	if u.Billing.Address != nil {
		a := *u.Billing.Address
		c.Billing.Address = &a
	}
	if u.Billing.PaymentMethod != nil {
		pm := *u.Billing.PaymentMethod
		c.Billing.PaymentMethod = &pm
	}
	return &c
}

// UserUpdate is a partial update of the user-editable fields. Nil fields are left untouched.
type UserUpdate struct {
	Name             *string         `json:"name"`
	TwoFactorEnabled *bool           `json:"twoFactorEnabled"`
	Settings         *SettingsUpdate `json:"settings"`
	Profile          *ProfileUpdate  `json:"profile"`
	Billing          *BillingUpdate  `json:"billing"`
}

type SettingsUpdate struct {
	Theme                *string  `json:"theme"`
	Notifications        *bool    `json:"notifications"`
	EmailNotifications   *bool    `json:"emailNotifications"`
	PreferredAIPlatforms []string `json:"preferredAIPlatforms"`
}

type ProfileUpdate struct {
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Company  *string `json:"company"`
	JobTitle *string `json:"jobTitle"`
}

type BillingUpdate struct {
	Address *Address `json:"address"`
}

// Apply merges the update into u.
func (p UserUpdate) Apply(u *User) {
	setString(&u.Name, p.Name)
	if p.TwoFactorEnabled != nil {
		u.TwoFactorEnabled = *p.TwoFactorEnabled
	}
	if s := p.Settings; s != nil {
		setString(&u.Settings.Theme, s.Theme)
		setBool(&u.Settings.Notifications, s.Notifications)
		setBool(&u.Settings.EmailNotifications, s.EmailNotifications)
		if s.PreferredAIPlatforms != nil {
			u.Settings.PreferredAIPlatforms = append([]string(nil), s.PreferredAIPlatforms...)
		}
	}
	if pr := p.Profile; pr != nil {
		setString(&u.Profile.Avatar, pr.Avatar)
		setString(&u.Profile.Bio, pr.Bio)
		setString(&u.Profile.Location, pr.Location)
		setString(&u.Profile.Website, pr.Website)
		setString(&u.Profile.Company, pr.Company)
		setString(&u.Profile.JobTitle, pr.JobTitle)
	}
	if b := p.Billing; b != nil && b.Address != nil {
		a := *b.Address
		u.Billing.Address = &a
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest carries a single email address (forgot password, manual verification, waitlist).
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserResponse represents user data safe for API responses.
// It deliberately has no password, token or two-factor secret fields.
type UserResponse struct {
	ID                       string     `json:"id"`
	Email                    string     `json:"email"`
	Name                     string     `json:"name"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
	EmailVerified            bool       `json:"emailVerified"`
	EmailVerificationExpires *time.Time `json:"emailVerificationExpires,omitempty"`
	PasswordResetExpires     *time.Time `json:"passwordResetExpires,omitempty"`
	TwoFactorEnabled         bool       `json:"twoFactorEnabled"`
	LastLogin                *time.Time `json:"lastLogin,omitempty"`
	Settings                 Settings   `json:"settings"`
	Profile                  Profile    `json:"profile"`
	Billing                  Billing    `json:"billing"`
}

// Sanitize projects u onto the response shape.
func (u *User) Sanitize() UserResponse {
	c := u.Clone()
	return UserResponse{
		ID:                       c.ID,
		Email:                    c.Email,
		Name:                     c.Name,
		CreatedAt:                c.CreatedAt,
		UpdatedAt:                c.UpdatedAt,
		EmailVerified:            c.EmailVerified,
		EmailVerificationExpires: c.EmailVerificationExpires,
		PasswordResetExpires:     c.PasswordResetExpires,
		TwoFactorEnabled:         c.TwoFactorEnabled,
		LastLogin:                c.LastLogin,
		Settings:                 c.Settings,
		Profile:                  c.Profile,
		Billing:                  c.Billing,
	}
}

type RegisterResponse struct {
	Message                   string       `json:"message"`
	User                      UserResponse `json:"user"`
	RequiresEmailVerification bool         `json:"requiresEmailVerification"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// UserEnvelope wraps a user with an optional status message.
type UserEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Identity is the caller decoded from a bearer token.
type Identity struct {
	UserID string
	Email  string
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
