package messaging

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneValidator normalizes raw phone numbers to E.164. Numbers without a
// country prefix are interpreted in the configured default region.
type PhoneValidator struct {
	defaultRegion string
}

// NewPhoneValidator builds a validator for the given ISO 3166-1 region code.
func NewPhoneValidator(defaultRegion string) *PhoneValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = "US"
	}
	return &PhoneValidator{defaultRegion: region}
}

// Validate parses and validates a phone number, returning its E.164 form.
func (v *PhoneValidator) Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	parsed, err := phonenumbers.Parse(raw, v.defaultRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("phone number %q is not valid", raw)
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
