package model

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// vinPattern is the ISO 3779 alphabet: digits and capitals without I, O, Q.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "cannot be empty")
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "cannot exceed %d characters", max)
	}
	return nil
}

func optionalText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "cannot exceed %d characters", max)
	}
	return nil
}

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid(field, "cannot be empty")
	}
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return invalid(field, "must be at least 2 characters long")
	}
	if n > 50 {
		return invalid(field, "cannot exceed 50 characters")
	}
	return nil
}

func validateEmail(email string, max int) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "invalid email format")
	}
	if max > 0 && utf8.RuneCountInString(email) > max {
		return invalid("email", "cannot exceed %d characters", max)
	}
	return nil
}

func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return invalid("phoneNumber", "cannot be empty")
	}
	n := utf8.RuneCountInString(phone)
	if n < 10 {
		return invalid("phoneNumber", "must be at least 10 characters")
	}
	if n > 15 {
		return invalid("phoneNumber", "cannot exceed 15 characters")
	}
	return nil
}

func validateID(field string, id int64) error {
	if id <= 0 {
		return invalid(field, "must be a positive id")
	}
	return nil
}

func validateUserID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid(field, "cannot be empty")
	}
	return nil
}

func positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

// amount checks a price: positive, whole cents, at most max.
func amount(field string, v, max decimal.Decimal) error {
	if err := positive(field, v); err != nil {
		return err
	}
	if !cents(v) {
		return invalid(field, "cannot have more than 2 decimal places")
	}
	if v.GreaterThan(max) {
		return invalid(field, "cannot exceed %s", max.StringFixed(2))
	}
	return nil
}

func cents(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

// NormalizeVIN upper-cases and trims a VIN the way it is stored.
func NormalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// ValidateVIN checks an already normalized VIN.
func ValidateVIN(vin string) error {
	if vin == "" {
		return invalid("vinNumber", "cannot be empty")
	}
	if utf8.RuneCountInString(vin) != 17 {
		return invalid("vinNumber", "must be exactly 17 characters")
	}
	if !vinPattern.MatchString(vin) {
		return invalid("vinNumber", "must contain only digits and letters other than I, O and Q")
	}
	return nil
}
