package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:invitations.db?_foreign_keys=on" {
		t.Errorf("SQLiteDSN = %q", cfg.SQLiteDSN)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.DispatchDelay != 500*time.Millisecond {
		t.Errorf("DispatchDelay = %v, want 500ms", cfg.DispatchDelay)
	}
	if cfg.DefaultPhoneRegion != "US" {
		t.Errorf("DefaultPhoneRegion = %q, want US", cfg.DefaultPhoneRegion)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want 587", cfg.SMTP.Port)
	}
	if cfg.SMTP.Configured() {
		t.Error("SMTP must not report configured without host and sender")
	}
	if cfg.Twilio.Configured() {
		t.Error("Twilio must not report configured without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INVITATIONS_HTTP_PORT", "9090")
	t.Setenv("INVITATIONS_BASE_URL", "https://rsvp.example.com")
	t.Setenv("INVITATIONS_SESSION_TTL", "1h")
	t.Setenv("INVITATIONS_DISPATCH_DELAY", "50ms")
	t.Setenv("INVITATIONS_DEFAULT_PHONE_REGION", "GB")
	t.Setenv("INVITATIONS_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.BaseURL != "https://rsvp.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.DispatchDelay != 50*time.Millisecond {
		t.Errorf("DispatchDelay = %v, want 50ms", cfg.DispatchDelay)
	}
	if cfg.DefaultPhoneRegion != "GB" {
		t.Errorf("DefaultPhoneRegion = %q, want GB", cfg.DefaultPhoneRegion)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadCollectsEveryInvalidValue(t *testing.T) {
	t.Setenv("INVITATIONS_HTTP_PORT", "-1")
	t.Setenv("INVITATIONS_SESSION_TTL", "-5m")
	t.Setenv("INVITATIONS_DISPATCH_DELAY", "0s")
	t.Setenv("INVITATIONS_BASE_URL", "   ")

	_, err := Load()
	if err == nil {
		t.Fatal("Load accepted invalid values")
	}
	for _, name := range []string{
		"INVITATIONS_HTTP_PORT",
		"INVITATIONS_SESSION_TTL",
		"INVITATIONS_DISPATCH_DELAY",
		"INVITATIONS_BASE_URL",
	} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestLoadRejectsUnparseableValues(t *testing.T) {
	t.Setenv("INVITATIONS_SESSION_TTL", "eventually")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an unparseable duration")
	}
}

func TestSMTPConfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{"host and from", SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}, true},
		{"host only", SMTPConfig{Host: "smtp.example.com"}, false},
		{"from only", SMTPConfig{From: "noreply@example.com"}, false},
		{"empty", SMTPConfig{}, false},
	}
	for _, tc := range cases {
		if got := tc.cfg.Configured(); got != tc.want {
			t.Errorf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTwilioConfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  TwilioConfig
		want bool
	}{
		{"sms sender", TwilioConfig{AccountSID: "AC1", AuthToken: "tok", SMSFrom: "+15550100"}, true},
		{"whatsapp sender", TwilioConfig{AccountSID: "AC1", AuthToken: "tok", WhatsAppFrom: "whatsapp:+15550100"}, true},
		{"no sender identity", TwilioConfig{AccountSID: "AC1", AuthToken: "tok"}, false},
		{"missing token", TwilioConfig{AccountSID: "AC1", SMSFrom: "+15550100"}, false},
		{"empty", TwilioConfig{}, false},
	}
	for _, tc := range cases {
		if got := tc.cfg.Configured(); got != tc.want {
			t.Errorf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
