package telegram

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
)

// tokenPattern matches the Telegram bot token format: <digits>:<alphanum+dash>.
var tokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// Config holds the Telegram channel configuration.
type Config struct {
	Token          string   `yaml:"token"`
	PollingTimeout int      `yaml:"polling_timeout"`
	AllowedUpdates []string `yaml:"allowed_updates"`
	APIURL         string   `yaml:"api_url"`
}

// defaults applies default values to unset fields. The bot token falls
// back to the TELEGRAM_BOT_TOKEN environment variable when not set in
// YAML.
func (c *Config) defaults() {
	if c.Token == "" {
		c.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.PollingTimeout == 0 {
		c.PollingTimeout = 30
	}
	if c.AllowedUpdates == nil {
		// my_chat_member must be requested explicitly; Telegram does
		// not deliver it by default.
		c.AllowedUpdates = []string{"message", "edited_message", "my_chat_member"}
	}
	if c.APIURL == "" {
		c.APIURL = "https://api.telegram.org"
	}
}

// validate checks configuration field constraints beyond basic
// presence checks.
func (c *Config) validate() error {
	if c.Token != "" && !tokenPattern.MatchString(c.Token) {
		return fmt.Errorf("telegram: token format invalid (expected <bot_id>:<hash>)")
	}

	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("telegram: api_url must be a valid http/https URL, got %q", c.APIURL)
		}
	}

	if c.PollingTimeout < 0 || c.PollingTimeout > 50 {
		return fmt.Errorf("telegram: polling_timeout must be 0-50, got %d", c.PollingTimeout)
	}

	return nil
}
