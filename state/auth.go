package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/miyatoshi624/gote/client"
	"github.com/miyatoshi624/gote/internal/notify"
)

// SessionSource is the part of *client.Client the auth tracker uses.
type SessionSource interface {
	UserID() client.Result[uuid.UUID]
	OnAuthStateChanged(fn func()) (unsubscribe func())
}

// Auth tracks who is signed in. It follows the client's auth-state
// notifications and re-publishes them after updating its principal.
type Auth struct {
	src SessionSource

	mu     sync.RWMutex
	user   uuid.UUID
	authed bool

	changed     notify.Registry
	unsubscribe func()
	closeOnce   sync.Once
}

// NewAuth starts tracking src. Call Close to stop.
func NewAuth(src SessionSource) *Auth {
	a := &Auth{src: src}
	a.refresh()
	a.unsubscribe = src.OnAuthStateChanged(func() {
		a.refresh()
		a.changed.Notify()
	})
	return a
}

func (a *Auth) refresh() {
	uid, _, ok := a.src.UserID().Unpack()
	a.mu.Lock()
	defer a.mu.Unlock()
	if !ok {
		a.user, a.authed = uuid.Nil, false
		return
	}
	a.user, a.authed = uid, true
}

// Current returns the signed-in user's ID and whether anyone is signed in.
func (a *Auth) Current() (uuid.UUID, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user, a.authed
}

// OnChanged registers fn to run after every sign-in and sign-out.
func (a *Auth) OnChanged(fn func()) (unsubscribe func()) {
	return a.changed.Subscribe(fn)
}

// Close detaches from the client.
func (a *Auth) Close() {
	a.closeOnce.Do(a.unsubscribe)
}
