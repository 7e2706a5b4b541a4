package client

import (
	"context"
	"net/http"

	identity "tasquest/internal/identity/models"
	dErrors "tasquest/pkg/domain-errors"
)

// AuthClient is the device-side Authentication Service. Errors reach the
// caller verbatim; nothing is retried.
type AuthClient struct {
	c *Client
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccount registers a new account and signs it in.
func (a *AuthClient) CreateAccount(ctx context.Context, email, password string) (*identity.AccountIdentity, error) {
	return a.authenticate(ctx, "/v1/accounts", email, password)
}

// SignIn exchanges credentials for a session. Unknown email and wrong
// password both fail with invalid_credentials.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*identity.AccountIdentity, error) {
	return a.authenticate(ctx, "/v1/sessions", email, password)
}

func (a *AuthClient) authenticate(ctx context.Context, path, email, password string) (*identity.AccountIdentity, error) {
	var result identity.SignInResult
	err := a.c.do(ctx, http.MethodPost, path, "", credentials{Email: email, Password: password}, &result, dErrors.CodeServiceUnavailable)
	if err != nil {
		return nil, err
	}
	if err := a.c.tokens.Save(Session{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		AccountID: result.Identity.ID.String(),
		Email:     result.Identity.Email,
		Device:    result.Device,
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist session")
	}
	who := result.Identity
	return &who, nil
}

// AuthenticatedIdentity returns the identity of the active session, or nil
// when there is none. A token the server rejects is discarded.
func (a *AuthClient) AuthenticatedIdentity(ctx context.Context) (*identity.AccountIdentity, error) {
	sess, err := a.c.currentSession()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	if sess == nil {
		return nil, nil
	}
	var who identity.AccountIdentity
	err = a.c.do(ctx, http.MethodGet, "/v1/me", sess.Token, nil, &who, dErrors.CodeServiceUnavailable)
	if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		if clearErr := a.c.tokens.Clear(); clearErr != nil {
			a.c.logger.WarnContext(ctx, "failed to clear rejected session", "error", clearErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &who, nil
}

// UpdateAvatar sets the avatar reference, or clears it when ref is nil.
func (a *AuthClient) UpdateAvatar(ctx context.Context, ref *string) (*identity.AccountIdentity, error) {
	sess, err := a.c.currentSession()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	if sess == nil {
		return nil, errNoSession
	}
	body := identity.UpdateProfileRequest{AvatarRef: ref}
	var who identity.AccountIdentity
	if err := a.c.do(ctx, http.MethodPatch, "/v1/me", sess.Token, body, &who, dErrors.CodeServiceUnavailable); err != nil {
		return nil, err
	}
	return &who, nil
}

// SignOut revokes the session on the server when it can and always forgets
// the local token.
func (a *AuthClient) SignOut(ctx context.Context) error {
	sess, err := a.c.currentSession()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	if sess != nil {
		if err := a.c.do(ctx, http.MethodDelete, "/v1/sessions/current", sess.Token, nil, nil, dErrors.CodeServiceUnavailable); err != nil {
			a.c.logger.WarnContext(ctx, "server-side sign out failed", "error", err)
		}
	}
	if err := a.c.tokens.Clear(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear session")
	}
	return nil
}
