package client

import (
	"time"

	"github.com/google/uuid"
)

// IsSessionValid reports whether a session is held and has not expired.
func (c *Client) IsSessionValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil && !c.session.Expired(c.now())
}

// SessionExpiry returns when the held session expires, in the client's
// display zone.
func (c *Client) SessionExpiry() Result[time.Time] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return failure[time.Time](ErrUnauthenticated)
	}
	return success(c.session.ExpiresAt().In(c.loc))
}

// UserID returns the signed-in user's ID.
func (c *Client) UserID() Result[uuid.UUID] {
	uid, ok := c.currentUser()
	if !ok {
		return failure[uuid.UUID](ErrUnauthenticated)
	}
	return success(uid)
}

func (c *Client) currentUser() (uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return uuid.Nil, false
	}
	return c.session.UserID, true
}
