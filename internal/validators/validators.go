// Package validators checks user-supplied form fields before they reach a store.
package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9 \-]{6,20}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}._\-]+$`)
)

const MinPasswordLength = 6

// MaxAmount is the largest money value a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(val))
	if length < minLen || length > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func ValidateUsername(username string) error {
	if err := ValidateString("username", username, 3, 50); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only letters, digits, dots, dashes and underscores")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateEmail accepts an empty address; email is optional on accounts.
func ValidateEmail(email string) error {
	if email != "" && !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone accepts an empty number.
func ValidatePhone(phone string) error {
	if phone != "" && !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number")
	}
	return nil
}

// ValidatePrice accepts whole cents between zero and MaxAmount.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return ValidateAmount("price", price)
}

// ValidateAmount rejects values the money columns would round or overflow.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%s cannot have more than 2 decimal places", field)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%s cannot exceed %s", field, MaxAmount.StringFixed(2))
	}
	return nil
}

// ValidateImage requires an inline data URI for an image.
func ValidateImage(field, uri string) error {
	if uri != "" && !strings.HasPrefix(uri, "data:image/") {
		return fmt.Errorf("%s must be an image data URI", field)
	}
	return nil
}
