package tgtrack

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultBaseURL is the production TGTrack Bot API endpoint.
const defaultBaseURL = "https://bot-api.tgtrack.ru/v1"

// maxTimeout bounds the per-request timeout so a slow provider can
// never stall the bot noticeably.
const maxTimeout = 10 * time.Second

// Config holds the TGTrack tracking configuration. Loaded once at
// startup and immutable afterwards.
type Config struct {
	Enabled bool          `yaml:"enabled"`
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// defaults applies default values. Unset fields fall back to the
// TGTRACK_ENABLED and TGTRACK_API_KEY environment variables, so the
// module is configurable without touching the YAML file.
func (c *Config) defaults() {
	if !c.Enabled {
		if v, err := strconv.ParseBool(os.Getenv("TGTRACK_ENABLED")); err == nil {
			c.Enabled = v
		}
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("TGTRACK_API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// validate checks field constraints. The API key is only required when
// tracking is enabled; a disabled module is always valid.
func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return errors.New("tgtrack: api_key is required when tracking is enabled (set api_key or TGTRACK_API_KEY)")
	}
	if c.Timeout > maxTimeout {
		return fmt.Errorf("tgtrack: timeout must be at most %s, got %s", maxTimeout, c.Timeout)
	}
	return nil
}
