package client

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client/internal/backend"
)

// SignUp registers the configured account email with password.
func (c *Client) SignUp(ctx context.Context, password string) Result[bool] {
	return run(ctx, c, "sign_up", once, func(ctx context.Context, be backend.Backend) (bool, error) {
		if c.settings.AccountEmail == "" {
			return false, Error{Code: CodeNotConfigured, Message: "account email is not configured"}
		}
		if err := be.Auth().SignUp(ctx, c.settings.AccountEmail, password); err != nil {
			return false, err
		}
		return true, nil
	})
}

// SignIn authenticates the configured account, replaces the held session
// and notifies auth-state listeners. It returns the signed-in user's ID.
func (c *Client) SignIn(ctx context.Context, password string) Result[uuid.UUID] {
	r := run(ctx, c, "sign_in", once, func(ctx context.Context, be backend.Backend) (uuid.UUID, error) {
		if c.settings.AccountEmail == "" {
			return uuid.Nil, Error{Code: CodeNotConfigured, Message: "account email is not configured"}
		}
		s, err := be.Auth().SignIn(ctx, c.settings.AccountEmail, password)
		if err != nil {
			return uuid.Nil, err
		}
		if s == nil {
			return uuid.Nil, errors.New("sign in returned no session")
		}
		c.mu.Lock()
		c.session = s
		c.mu.Unlock()
		return s.UserID, nil
	})
	if r.IsSuccess() {
		c.authChanged.Notify()
	}
	return r
}

// SignOut drops the held session and notifies auth-state listeners. It
// succeeds whether or not a session existed; a failed remote sign-out is
// logged and the local session is cleared anyway.
func (c *Client) SignOut(ctx context.Context) Result[bool] {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		r := run(ctx, c, "sign_out", once, func(ctx context.Context, be backend.Backend) (bool, error) {
			return true, be.Auth().SignOut(ctx, s)
		})
		if r.IsFailure() {
			c.log.Warn().Str("code", r.GetFailure().Code).Msg("remote sign out failed; local session cleared")
		}
	}
	c.authChanged.Notify()
	return success(true)
}

// OnAuthStateChanged registers fn to run after every SignIn success and
// every SignOut. The returned function unsubscribes.
func (c *Client) OnAuthStateChanged(fn func()) (unsubscribe func()) {
	return c.authChanged.Subscribe(fn)
}
