package models

import (
	"strings"
	"unicode/utf8"

	dErrors "tasquest/pkg/domain-errors"
	"tasquest/pkg/email"
)

const (
	MinPasswordLength  = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes   = 72
	MaxAvatarRefLength = 2048
)

type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CreateAccountRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = email.Normalize(r.Email)
}

// Validate reports malformed credentials as invalid_credentials so clients
// can show one message for every rejected sign-up form.
func (r *CreateAccountRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeInvalidCredentials, "email is malformed")
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeInvalidCredentials, "password must be at least 6 characters")
	}
	if len(r.Password) > MaxPasswordBytes {
		return dErrors.New(dErrors.CodeInvalidCredentials, "password is too long")
	}
	return nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = email.Normalize(r.Email)
}

func (r *SignInRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidCredentials, "email and password are required")
	}
	return nil
}

type UpdateProfileRequest struct {
	AvatarRef *string `json:"avatar_ref"`
}

// Normalize trims the avatar reference; a blank value clears it.
func (r *UpdateProfileRequest) Normalize() {
	if r == nil || r.AvatarRef == nil {
		return
	}
	trimmed := strings.TrimSpace(*r.AvatarRef)
	if trimmed == "" {
		r.AvatarRef = nil
		return
	}
	r.AvatarRef = &trimmed
}

func (r *UpdateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.AvatarRef != nil && len(*r.AvatarRef) > MaxAvatarRefLength {
		return dErrors.New(dErrors.CodeValidation, "avatar_ref is too long")
	}
	return nil
}
