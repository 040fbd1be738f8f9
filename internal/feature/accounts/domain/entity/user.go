// Package entity defines the domain entities for the accounts feature.
package entity

import (
	"time"

	"greetings_backend/internal/feature/accounts/domain"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
// An account is anchored by exactly one credential: a bcrypt password hash for
// local accounts, or a GoogleID for federated accounts.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// FirstName and LastName are display name fields.
	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`

	// Password is the hashed password for local accounts.
	// It is empty for federated accounts and never stores plaintext.
	Password string `gorm:"size:255"`

	// GoogleID is the federated identity anchor, nil for local accounts.
	GoogleID *string `gorm:"uniqueIndex;size:64"`

	// Role controls access to admin-only operations.
	Role string `gorm:"size:32;not null;default:user"`

	// EmailConfirmed reports whether the address has been proven via a
	// confirmation code. Federated accounts are created confirmed.
	EmailConfirmed bool `gorm:"not null;default:false"`

	// EmailConfirmationOTP and EmailConfirmationOTPExpires form the pending
	// confirmation code. They are either both nil or both set, and always nil
	// once EmailConfirmed is true. Only IssueConfirmationCode and ConfirmEmail
	// touch them.
	EmailConfirmationOTP        *string `gorm:"size:16"`
	EmailConfirmationOTPExpires *time.Time

	// RefreshToken is the opaque token for silent re-authentication,
	// nil when the user has no active session chain.
	RefreshToken *string `gorm:"index;size:64"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// IssueConfirmationCode moves the account into the pending-confirmation state,
// overwriting any previous code. Re-issuing is allowed while pending; issuing
// for a confirmed account is rejected.
func (u *User) IssueConfirmationCode(code string, expires time.Time) error {
	if u.EmailConfirmed {
		return domain.ErrAlreadyConfirmed
	}
	u.EmailConfirmationOTP = &code
	u.EmailConfirmationOTPExpires = &expires
	return nil
}

// ConfirmEmail is the single transition into the confirmed state. It succeeds
// only when a code is pending, matches, and its expiry is strictly in the
// future; any other case yields the same undifferentiated error and leaves the
// user unchanged.
func (u *User) ConfirmEmail(code string, now time.Time) error {
	if u.EmailConfirmationOTP == nil || u.EmailConfirmationOTPExpires == nil {
		return domain.ErrInvalidOrExpiredCode
	}
	if *u.EmailConfirmationOTP != code || !now.Before(*u.EmailConfirmationOTPExpires) {
		return domain.ErrInvalidOrExpiredCode
	}
	u.EmailConfirmed = true
	u.EmailConfirmationOTP = nil
	u.EmailConfirmationOTPExpires = nil
	return nil
}

// ConfirmationPending reports whether an unexpired confirmation code is outstanding.
func (u *User) ConfirmationPending(now time.Time) bool {
	return !u.EmailConfirmed &&
		u.EmailConfirmationOTP != nil &&
		u.EmailConfirmationOTPExpires != nil &&
		now.Before(*u.EmailConfirmationOTPExpires)
}

// IsFederated reports whether the account is anchored to an external identity provider.
func (u *User) IsFederated() bool {
	return u.GoogleID != nil
}

// PublicUser is the listing-safe projection of a User. It carries no
// credential, token, or confirmation-code columns.
type PublicUser struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           string    `json:"role"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public returns the listing-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}
