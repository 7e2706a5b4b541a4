package models

import (
	"time"

	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

// AccountIdentity is the authenticated user as seen by the rest of the app.
// It is immutable for the lifetime of a session.
type AccountIdentity struct {
	ID        id.AccountID `json:"id"`
	Email     string       `json:"email"`
	AvatarRef *string      `json:"avatar_ref"`
}

// Account is the provider-side user record.
type Account struct {
	ID           id.AccountID
	Email        string
	PasswordHash string
	AvatarRef    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount builds an account for an already normalized email and a bcrypt hash.
func NewAccount(accountID id.AccountID, email, passwordHash string, now time.Time) (*Account, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account ID required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash required")
	}
	return &Account{
		ID:           accountID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Identity projects the account into the value handed to clients. The avatar
// pointer is copied so callers cannot mutate the stored record.
func (a *Account) Identity() *AccountIdentity {
	identity := &AccountIdentity{ID: a.ID, Email: a.Email}
	if a.AvatarRef != nil {
		ref := *a.AvatarRef
		identity.AvatarRef = &ref
	}
	return identity
}

// ApplyAvatar sets or clears (nil) the avatar reference.
func (a *Account) ApplyAvatar(ref *string, now time.Time) {
	a.AvatarRef = ref
	a.UpdatedAt = now
}

// SignInResult is returned by account creation and sign-in.
type SignInResult struct {
	Identity  AccountIdentity `json:"identity"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Device    string          `json:"device,omitempty"`
}
