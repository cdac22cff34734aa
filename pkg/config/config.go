// Package config loads the settings shared by the e2e suite, the samples
// stand-in and the provisioning tool.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds harness configuration. Empty AccessToken or MeetingDestination
// means the fixture provisions them.
type Config struct {
	AccessToken        string `envconfig:"WEBEX_ACCESS_TOKEN"`
	MeetingDestination string `envconfig:"WEBEX_MEETING_DESTINATION"`

	// SamplesURL points at a deployed widget samples app. Empty starts the
	// local stand-in from cmd/widget-samples/server.
	SamplesURL string `envconfig:"WIDGET_SAMPLES_URL" validate:"omitempty,url"`

	APIBaseURL   string `envconfig:"WEBEX_API_URL" default:"https://webexapis.com/v1" validate:"required,url"`
	TestUsersURL string `envconfig:"WEBEX_TEST_USERS_URL" default:"https://conv-a.wbx2.com/conversation/api/v1" validate:"required,url"`
	TokenURL     string `envconfig:"WEBEX_TOKEN_URL" default:"https://idbroker.webex.com/idb/oauth2/v1/access_token" validate:"required,url"`
	ClientID     string `envconfig:"WEBEX_CLIENT_ID"`
	ClientSecret string `envconfig:"WEBEX_CLIENT_SECRET"`
	RoomTitle    string `envconfig:"WEBEX_ROOM_TITLE" default:"Test Room" validate:"required"`

	RequestsPerSecond float64 `envconfig:"WEBEX_API_RPS" default:"5" validate:"gt=0"`

	Headless   bool          `envconfig:"E2E_HEADLESS" default:"true"`
	UITimeout  time.Duration `envconfig:"E2E_UI_TIMEOUT" default:"10s" validate:"gt=0"`
	NavTimeout time.Duration `envconfig:"E2E_NAV_TIMEOUT" default:"30s" validate:"gt=0"`
	// SetupTimeout bounds fixture provisioning and teardown.
	SetupTimeout time.Duration `envconfig:"E2E_SETUP_TIMEOUT" default:"2m" validate:"gt=0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
}

var validate = validator.New()

// Load reads .env from the working directory when present, then the process
// environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
// Variables already set in the environment win over the file.
func LoadFile(path string) (Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field formats. It does not require the token or the
// destination, which may still be provisioned.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NeedsUser reports whether a test user has to be provisioned.
func (c Config) NeedsUser() bool {
	return c.AccessToken == ""
}

// NeedsRoom reports whether a room has to be created for the meeting.
func (c Config) NeedsRoom() bool {
	return c.MeetingDestination == ""
}

// UsesLocalSamples reports whether the local samples stand-in should be started.
func (c Config) UsesLocalSamples() bool {
	return c.SamplesURL == ""
}

// WithLocalPlatform points every platform endpoint at the fake API mounted
// under baseURL by the samples stand-in.
func (c Config) WithLocalPlatform(baseURL string) Config {
	api := baseURL + "/v1"
	c.APIBaseURL = api
	c.TestUsersURL = api
	c.TokenURL = api + "/access_token"
	if c.ClientID == "" {
		c.ClientID = "local-client"
	}
	if c.ClientSecret == "" {
		c.ClientSecret = "local-secret"
	}
	return c
}
