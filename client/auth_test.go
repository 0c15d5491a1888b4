package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSignIn_NotifiesOnlyOnSuccess(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()
	notified := 0
	unsub := c.OnAuthStateChanged(func() { notified++ })
	defer unsub()

	r := c.SignIn(ctx, "wrong")
	if r.GetFailure().Code != CodeInvalidCredentials {
		t.Fatalf("want invalid_credentials, got %v", r)
	}
	if notified != 0 {
		t.Fatalf("failed sign-in notified listeners")
	}
	if c.IsSessionValid() {
		t.Fatalf("failed sign-in created a session")
	}

	r = c.SignIn(ctx, testPassword)
	if !r.IsSuccess() {
		t.Fatalf("SignIn: %v", r)
	}
	if notified != 1 {
		t.Fatalf("notified=%d want 1", notified)
	}
	if uid := c.UserID(); !uid.IsSuccess() || uid.GetSuccess() != r.GetSuccess() {
		t.Fatalf("UserID=%v want %s", uid, r.GetSuccess())
	}
}

func TestSignIn_NotificationSeesSession(t *testing.T) {
	c, _, _ := newTestClient(t)
	valid := false
	c.OnAuthStateChanged(func() { valid = c.IsSessionValid() })

	c.SignIn(context.Background(), testPassword)
	if !valid {
		t.Fatalf("listener ran before the session was stored")
	}
}

func TestSignUp_Duplicate(t *testing.T) {
	c, _, _ := newTestClient(t)
	r := c.SignUp(context.Background(), testPassword)
	if r.GetFailure().Code != CodeAccountExists {
		t.Fatalf("want account_exists, got %v", r)
	}
}

func TestSignUp_RequiresEmail(t *testing.T) {
	c := New(Settings{Driver: DriverMemory})
	if r := c.SignUp(context.Background(), "pw"); r.GetFailure().Code != CodeNotConfigured {
		t.Fatalf("want not_configured, got %v", r)
	}
}

func TestSignIn_AuthIsNotRetried(t *testing.T) {
	c, fb, _ := newTestClient(t)
	fb.fail("auth.sign_in", errors.New("response status code 503: unavailable"))

	r := c.SignIn(context.Background(), testPassword)
	if r.GetFailure().Code != "503" {
		t.Fatalf("want 503 passthrough, got %v", r)
	}
	if got := fb.count("auth.sign_in"); got != 1 {
		t.Fatalf("sign in attempted %d times", got)
	}
}

func TestSignOut_Twice(t *testing.T) {
	c, _, _ := newSignedInClient(t)
	ctx := context.Background()
	notified := 0
	c.OnAuthStateChanged(func() { notified++ })

	for i := 0; i < 2; i++ {
		if r := c.SignOut(ctx); !r.IsSuccess() || !r.GetSuccess() {
			t.Fatalf("SignOut #%d: %v", i+1, r)
		}
	}
	if c.IsSessionValid() {
		t.Fatalf("session survived SignOut")
	}
	if r := c.UserID(); r.GetFailure().Code != CodeUnauthenticated {
		t.Fatalf("UserID after SignOut: %v", r)
	}
	if notified != 2 {
		t.Fatalf("notified=%d want 2", notified)
	}
}

func TestSignOut_RemoteFailureStillClears(t *testing.T) {
	c, fb, _ := newSignedInClient(t)
	fb.fail("auth.sign_out", errors.New("response status code 500: boom"))

	if r := c.SignOut(context.Background()); !r.IsSuccess() {
		t.Fatalf("SignOut: %v", r)
	}
	if c.IsSessionValid() {
		t.Fatalf("local session kept after remote failure")
	}
}

func TestUnsubscribe(t *testing.T) {
	c, _, _ := newTestClient(t)
	calls := 0
	unsub := c.OnAuthStateChanged(func() { calls++ })
	unsub()
	c.SignIn(context.Background(), testPassword)
	if calls != 0 {
		t.Fatalf("unsubscribed listener called")
	}
}

func TestSessionExpiry(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("tzdata: %v", err)
	}
	c, _, clk := newTestClient(t)
	if r := c.SessionExpiry(); r.GetFailure().Code != CodeUnauthenticated {
		t.Fatalf("expiry without session: %v", r)
	}

	signedInAt := clk.Now()
	c.SignIn(context.Background(), testPassword)
	r := c.SessionExpiry()
	if !r.IsSuccess() {
		t.Fatalf("SessionExpiry: %v", r)
	}
	exp := r.GetSuccess()
	if exp.Location().String() != tokyo.String() {
		t.Fatalf("expiry reported in %s", exp.Location())
	}
	if !exp.Equal(signedInAt.Add(time.Hour)) {
		t.Fatalf("expiry=%s want %s", exp, signedInAt.Add(time.Hour))
	}

	clk.Advance(59 * time.Minute)
	if !c.IsSessionValid() {
		t.Fatalf("session expired early")
	}
	clk.Advance(time.Minute)
	if c.IsSessionValid() {
		t.Fatalf("session still valid at expiry")
	}
}

func TestSessionExpiry_ConfiguredLocation(t *testing.T) {
	c, _, _ := newSignedInClient(t, WithLocation(time.UTC))
	if loc := c.SessionExpiry().GetSuccess().Location(); loc != time.UTC {
		t.Fatalf("location=%s want UTC", loc)
	}
}
