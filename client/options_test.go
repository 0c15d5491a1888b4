package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestWithHTTPTimeoutAndDebugLogging(t *testing.T) {
	c := New(Settings{}, WithHTTPTimeout(5*time.Second))
	if c.http.Timeout != 5*time.Second {
		t.Fatalf("http timeout not set")
	}

	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
	})
	c2 := New(Settings{}, WithDebugLogging(true))
	dt, ok := c2.http.Transport.(*debugTransport)
	if !ok {
		t.Fatalf("expected debugTransport")
	}
	dt.base = rt

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", strings.NewReader(""))
	if _, err := c2.http.Do(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("GOTE_DEBUG", "true")
	c := New(Settings{})
	if _, ok := c.http.Transport.(*debugTransport); !ok {
		t.Fatalf("expected debugTransport to be installed when GOTE_DEBUG=true")
	}
}

func TestDebugTransport_ErrorPath(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, context.DeadlineExceeded
	})
	c := New(Settings{}, WithDebugLogging(true))
	c.http.Transport.(*debugTransport).base = rt
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", http.NoBody)
	if _, err := c.http.Do(req); err == nil {
		t.Fatalf("expected error from underlying transport")
	}
}

func TestInvalidOptionsPanic(t *testing.T) {
	cases := map[string]Option{
		"timeout":  WithHTTPTimeout(0),
		"backend":  WithBackend(nil),
		"clock":    WithClock(nil),
		"location": WithLocation(nil),
		"retry":    WithRetry(0, time.Second),
		"interval": WithRetry(2, 0),
	}
	for name, opt := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic", name)
				}
			}()
			New(Settings{}, opt)
		}()
	}
}

func TestWithRetry(t *testing.T) {
	c := New(Settings{}, WithRetry(5, 10*time.Millisecond))
	if c.retry.attempts != 5 || c.retry.base != 10*time.Millisecond {
		t.Fatalf("retry policy not applied: %+v", c.retry)
	}
}
