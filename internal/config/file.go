package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileSettings is the hosted-backend section of a settings file:
//
//	{"Supabase": {"Url": "https://xyz.supabase.co", "Key": "...", "Email": "me@example.com"}}
//
// JSON, YAML and TOML are accepted; keys are case-insensitive.
type FileSettings struct {
	URL   string
	Key   string
	Email string
}

// LoadFile reads a settings file. A missing file is an error: callers pass
// a path only when they expect one.
func LoadFile(path string) (*FileSettings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &FileSettings{
		URL:   v.GetString("supabase.url"),
		Key:   v.GetString("supabase.key"),
		Email: v.GetString("supabase.email"),
	}, nil
}
