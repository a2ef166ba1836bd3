package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// SMTPConfig carries the credentials for the email transport. The transport is
// considered configured only when Host and From are both set.
type SMTPConfig struct {
	Host     string `env:"INVITATIONS_SMTP_HOST"`
	Port     int    `env:"INVITATIONS_SMTP_PORT" envDefault:"587"`
	Username string `env:"INVITATIONS_SMTP_USERNAME"`
	Password string `env:"INVITATIONS_SMTP_PASSWORD"`
	From     string `env:"INVITATIONS_SMTP_FROM"`
}

// Configured reports whether enough of the SMTP settings are present to wire
// the email channel.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// TwilioConfig carries the credentials for the text-message transport.
// WhatsAppFrom and SMSFrom each enable their channel independently.
type TwilioConfig struct {
	AccountSID   string `env:"INVITATIONS_TWILIO_ACCOUNT_SID"`
	AuthToken    string `env:"INVITATIONS_TWILIO_AUTH_TOKEN"`
	SMSFrom      string `env:"INVITATIONS_TWILIO_SMS_FROM"`
	WhatsAppFrom string `env:"INVITATIONS_TWILIO_WHATSAPP_FROM"`
}

// Configured reports whether the Twilio credentials and at least one sender
// identity are present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && (c.SMSFrom != "" || c.WhatsAppFrom != "")
}

// Config captures environment driven configuration values for the invitation
// service.
type Config struct {
	HTTPPort           int           `env:"INVITATIONS_HTTP_PORT" envDefault:"8080"`
	SQLiteDSN          string        `env:"INVITATIONS_SQLITE_DSN" envDefault:"file:invitations.db?_foreign_keys=on"`
	BaseURL            string        `env:"INVITATIONS_BASE_URL" envDefault:"http://localhost:8080"`
	SessionTTL         time.Duration `env:"INVITATIONS_SESSION_TTL" envDefault:"24h"`
	DispatchDelay      time.Duration `env:"INVITATIONS_DISPATCH_DELAY" envDefault:"500ms"`
	DefaultPhoneRegion string        `env:"INVITATIONS_DEFAULT_PHONE_REGION" envDefault:"US"`
	LogLevel           string        `env:"INVITATIONS_LOG_LEVEL" envDefault:"info"`

	SMTP   SMTPConfig
	Twilio TwilioConfig
}

// Load parses configuration values from the current process environment.
//
// Parsing applies defaults for optional fields; validation collects every
// offending variable so a misconfigured deployment reports all problems at
// once rather than one per restart.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	invalid := make([]string, 0, 3)
	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "INVITATIONS_HTTP_PORT")
	}
	if cfg.SessionTTL <= 0 {
		invalid = append(invalid, "INVITATIONS_SESSION_TTL")
	}
	if cfg.DispatchDelay <= 0 {
		invalid = append(invalid, "INVITATIONS_DISPATCH_DELAY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		invalid = append(invalid, "INVITATIONS_BASE_URL")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
