package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
	_ "time/tzdata" // display zone must resolve on hosts without a zoneinfo database

	"github.com/rs/zerolog"

	"github.com/miyatoshi624/gote/client/internal/backend"
	"github.com/miyatoshi624/gote/client/internal/backend/memory"
	"github.com/miyatoshi624/gote/client/internal/backend/postgres"
	"github.com/miyatoshi624/gote/client/internal/backend/sqlite"
	"github.com/miyatoshi624/gote/client/internal/backend/supabase"
	"github.com/miyatoshi624/gote/client/internal/localauth"
	"github.com/miyatoshi624/gote/client/internal/types"
	"github.com/miyatoshi624/gote/internal/notify"
)

// Driver names accepted in Settings.Driver.
const (
	DriverAuto     = "auto"
	DriverSupabase = "supabase"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const (
	// DefaultTimeZone is the zone SessionExpiry reports in unless configured.
	DefaultTimeZone   = "Asia/Tokyo"
	defaultSessionTTL = time.Hour
)

// Settings selects and configures the remote store.
type Settings struct {
	BackendURL   string
	BackendKey   string
	AccountEmail string

	// Driver is one of the Driver* constants. Empty or DriverAuto picks
	// supabase when BackendURL is set and sqlite otherwise.
	Driver      string
	SQLitePath  string
	PostgresDSN string
	// TokenSecret signs session tokens for the sqlite and postgres drivers.
	TokenSecret string
	SessionTTL  time.Duration
	TimeZone    string
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the data-access service. It owns at most one session and talks
// to the remote store through a backend driver chosen on first use.
type Client struct {
	settings Settings
	http     *http.Client
	log      zerolog.Logger
	now      func() time.Time
	loc      *time.Location
	retry    retryPolicy

	initMu sync.Mutex
	be     backend.Backend

	mu      sync.RWMutex
	session *types.Session

	authChanged notify.Registry
	closedOnce  uint32
}

// New constructs a Client. No remote traffic happens until the first call
// that needs the backend (or an explicit Init).
func New(settings Settings, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
		now:      time.Now,
		retry:    defaultRetryPolicy(),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	if c.loc == nil {
		c.loc = c.loadLocation(settings.TimeZone)
	}
	return c
}

func (c *Client) loadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		c.log.Warn().Err(err).Str("timezone", name).Msg("unknown time zone, reporting in UTC")
		return time.UTC
	}
	return loc
}

// Init connects the configured driver. It is called implicitly by every
// remote-facing operation; once it has succeeded further calls are no-ops,
// and a failed attempt is retried on the next call.
func (c *Client) Init(ctx context.Context) Result[bool] {
	if _, err := c.backend(ctx); err != nil {
		return failure[bool](err)
	}
	return success(true)
}

func (c *Client) backend(ctx context.Context) (backend.Backend, error) {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	if atomic.LoadUint32(&c.closedOnce) == 1 {
		return nil, errClosed
	}
	if c.be != nil {
		return c.be, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	be, err := c.open(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("driver", c.settings.Driver).Msg("client init failed")
		return nil, Error{Code: CodeNotConfigured, Message: err.Error()}
	}
	c.be = be
	c.log.Debug().Str("driver", c.driver()).Msg("client initialised")
	return be, nil
}

func (c *Client) driver() string {
	switch c.settings.Driver {
	case "", DriverAuto:
		if c.settings.BackendURL != "" {
			return DriverSupabase
		}
		return DriverSQLite
	default:
		return c.settings.Driver
	}
}

func (c *Client) open(ctx context.Context) (backend.Backend, error) {
	ttl := c.settings.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	switch d := c.driver(); d {
	case DriverSupabase:
		return supabase.New(supabase.Config{
			URL:        c.settings.BackendURL,
			Key:        c.settings.BackendKey,
			HTTPClient: c.http,
			Now:        c.now,
		})
	case DriverSQLite:
		if c.settings.SQLitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
		issuer, err := localauth.NewIssuer(c.settings.TokenSecret, ttl, c.now)
		if err != nil {
			return nil, err
		}
		return sqlite.New(ctx, c.settings.SQLitePath, issuer)
	case DriverPostgres:
		issuer, err := localauth.NewIssuer(c.settings.TokenSecret, ttl, c.now)
		if err != nil {
			return nil, err
		}
		return postgres.New(ctx, c.settings.PostgresDSN, issuer)
	case DriverMemory:
		return memory.New(memory.WithClock(c.now), memory.WithSessionTTL(ttl)), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", d)
	}
}

var errClosed = Error{Code: CodeNotConfigured, Message: "client is closed"}

// Close releases driver resources (database handles). Safe to call multiple
// times. A closed client does not reconnect: every later remote-facing call
// fails with not_configured.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.initMu.Lock()
	defer c.initMu.Unlock()
	be := c.be
	c.be = nil
	if closer, ok := be.(backend.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Location is the zone times are reported in.
func (c *Client) Location() *time.Location { return c.loc }
