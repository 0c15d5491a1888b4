// Command gotectl is a developer CLI over the gote client: it signs in with
// the configured account and runs one category or memo operation.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/miyatoshi624/gote/client"
	"github.com/miyatoshi624/gote/internal/config"
	"github.com/miyatoshi624/gote/internal/logger"
)

var (
	configPath string
	driver     string
	password   string
	debug      bool
)

const callTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gotectl",
		Short:         "gotectl manages gote categories and memos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			log.Logger = logger.NewConsole(level)
			zerolog.SetGlobalLevel(level)
			if debug {
				log.Debug().Msg("debug logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("GOTE_CONFIG"), "Settings file (JSON/YAML/TOML) with a Supabase section")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Override GOTE_DRIVER (supabase, sqlite, postgres, memory)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", os.Getenv("GOTE_PASSWORD"), "Account password")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newSignUpCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newMemosCmd())

	return rootCmd
}

// newClient builds a client from the settings file, the environment and the
// --driver flag.
func newClient() (*client.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if !debug {
		log.Logger = log.Logger.Level(logger.ParseLevel(cfg.LogLevel))
	}
	if driver != "" {
		cfg.Driver = driver
		if err := cfg.ResolveDefaults(); err != nil {
			return nil, err
		}
	}
	return client.New(cfg.Settings(),
		client.WithLogger(log.Logger),
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithDebugLogging(cfg.Debug || debug),
	), nil
}

// withSession signs in and runs fn with the signed-in client.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
	defer cancel()

	start := time.Now()
	if _, err := unwrap(c.SignIn(ctx, password)); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("sign in failed")
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("signed in")
	return fn(ctx, c)
}

// unwrap converts a Result into Go's (value, error) pair.
func unwrap[T any](r client.Result[T]) (T, error) {
	v, e, ok := r.Unpack()
	if !ok {
		return v, e
	}
	return v, nil
}

func newSignUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Register the configured account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			if _, err := unwrap(c.SignUp(ctx, password)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created")
			return nil
		},
	}
}
