// Package validate implements the field-format checks performed before any
// request leaves the client: PAN numbers, emails, phone numbers, client ids,
// API keys, and a small rule-driven form validator.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	panRe      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	clientIDRe = regexp.MustCompile(`^[A-Z0-9]{4,10}$`)
	apiKeyRe   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	symbolRe   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// IsValidEmail reports whether email looks like an address.
func IsValidEmail(email string) bool {
	return email != "" && emailRe.MatchString(email)
}

// IsValidPAN checks the tax-identifier format AAAAA0000A
// (5 uppercase letters, 4 digits, 1 uppercase letter).
func IsValidPAN(pan string) bool {
	return pan != "" && panRe.MatchString(pan)
}

// IsValidPhone accepts any string that contains exactly 10 digits once
// separators and other non-digit characters are stripped.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return false
	}
	cleaned := nonDigitRe.ReplaceAllString(phone, "")
	return len(cleaned) == 10
}

// IsValidClientID checks the 4–10 character uppercase-alphanumeric format.
func IsValidClientID(clientID string) bool {
	return clientID != "" && clientIDRe.MatchString(clientID)
}

// IsValidAPIKey requires at least 16 alphanumeric characters.
func IsValidAPIKey(apiKey string) bool {
	return len(apiKey) >= 16 && apiKeyRe.MatchString(apiKey)
}

// PasswordOptions tunes IsValidPassword. The zero value is not useful;
// use DefaultPasswordOptions for the standard policy.
type PasswordOptions struct {
	MinLength          int
	RequireSpecialChar bool
	RequireNumber      bool
	RequireUppercase   bool
	RequireLowercase   bool
}

// DefaultPasswordOptions is the policy applied when no options are given:
// at least 8 characters with a symbol, a digit, an uppercase and a
// lowercase letter.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		MinLength:          8,
		RequireSpecialChar: true,
		RequireNumber:      true,
		RequireUppercase:   true,
		RequireLowercase:   true,
	}
}

// IsValidPassword checks password against opts.
func IsValidPassword(password string, opts PasswordOptions) bool {
	if password == "" {
		return false
	}
	if len(password) < opts.MinLength {
		return false
	}
	if opts.RequireSpecialChar && !symbolRe.MatchString(password) {
		return false
	}
	if opts.RequireNumber && !digitRe.MatchString(password) {
		return false
	}
	if opts.RequireUppercase && !upperRe.MatchString(password) {
		return false
	}
	if opts.RequireLowercase && !lowerRe.MatchString(password) {
		return false
	}
	return true
}

// PasswordStrength scores password 0–4: one point each for length >= 8,
// an uppercase letter, a digit, and a symbol.
func PasswordStrength(password string) int {
	if password == "" {
		return 0
	}
	strength := 0
	if len(password) >= 8 {
		strength++
	}
	if upperRe.MatchString(password) {
		strength++
	}
	if digitRe.MatchString(password) {
		strength++
	}
	if symbolRe.MatchString(password) {
		strength++
	}
	return strength
}

// NotEmpty reports whether value contains anything besides whitespace.
func NotEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Rule describes the checks applied to a single form field. Checks run in a
// fixed order and only the first violation is reported.
type Rule struct {
	Required        bool
	Email           bool
	PAN             bool
	Phone           bool
	Password        bool
	PasswordOptions *PasswordOptions
	ClientID        bool
	APIKey          bool
	MinLength       int
	MaxLength       int

	// Custom returns a message for invalid values, "" for valid ones.
	// It receives the field value and the whole form.
	Custom func(value string, values map[string]string) string
}

// ValidateForm applies rules to values and returns a map of field name to
// the first violated rule's message. A field absent from the result is
// valid. Empty optional fields are skipped entirely.
func ValidateForm(values map[string]string, rules map[string]Rule) map[string]string {
	errs := make(map[string]string)

	for field, rule := range rules {
		value := values[field]

		if rule.Required && !NotEmpty(value) {
			errs[field] = "This field is required"
			continue
		}
		if !NotEmpty(value) {
			continue
		}

		switch {
		case rule.Email && !IsValidEmail(value):
			errs[field] = "Please enter a valid email address"
		case rule.PAN && !IsValidPAN(value):
			errs[field] = "Please enter a valid PAN card number (AAAAA0000A)"
		case rule.Phone && !IsValidPhone(value):
			errs[field] = "Please enter a valid 10-digit phone number"
		case rule.Password && !IsValidPassword(value, passwordOptions(rule)):
			errs[field] = "Please enter a valid password"
		case rule.ClientID && !IsValidClientID(value):
			errs[field] = "Please enter a valid client ID"
		case rule.APIKey && !IsValidAPIKey(value):
			errs[field] = "Please enter a valid API key"
		case rule.MinLength > 0 && len(value) < rule.MinLength:
			errs[field] = fmt.Sprintf("This field must be at least %d characters long", rule.MinLength)
		case rule.MaxLength > 0 && len(value) > rule.MaxLength:
			errs[field] = fmt.Sprintf("This field must be at most %d characters long", rule.MaxLength)
		case rule.Custom != nil:
			if msg := rule.Custom(value, values); msg != "" {
				errs[field] = msg
			}
		}
	}

	return errs
}

func passwordOptions(rule Rule) PasswordOptions {
	if rule.PasswordOptions != nil {
		return *rule.PasswordOptions
	}
	return DefaultPasswordOptions()
}
