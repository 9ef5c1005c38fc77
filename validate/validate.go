package validate

import (
	"regexp"
	"strings"

	"github.com/amanecerai/server/apperror"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func ValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// Sanitize trims whitespace and strips angle brackets from user input.
func Sanitize(input string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(input))
}

func Email(email string) error {
	if email == "" || !ValidEmail(email) {
		return &apperror.ValidationError{Message: "Invalid email format", Field: "email"}
	}
	return nil
}

func Password(password string) error {
	if !ValidPassword(password) {
		return &apperror.ValidationError{Message: "Password must be at least 8 characters long", Field: "password"}
	}
	return nil
}

func NotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &apperror.ValidationError{Message: fieldName + " cannot be empty", Field: fieldName}
	}
	return nil
}
