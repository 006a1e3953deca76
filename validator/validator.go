package validator

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"membergate/constants"
	"membergate/errors"
)

var codeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateCode checks a member code as typed at the gate keypad or in the admin UI.
func ValidateCode(code string) error {
	if code == "" {
		return errors.InvalidInput("code is required")
	}
	if len(code) > constants.MaxCodeLength {
		return errors.InvalidInput(fmt.Sprintf("code must be at most %d characters", constants.MaxCodeLength))
	}
	if !codeRegex.MatchString(code) {
		return errors.InvalidInput("code may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// ValidateSecret checks a PIN or password before it is hashed.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.InvalidInput("PIN is required")
	}
	if utf8.RuneCountInString(secret) < constants.MinSecretLength {
		return errors.InvalidInput(fmt.Sprintf("PIN must be at least %d characters", constants.MinSecretLength))
	}
	if len(secret) > constants.MaxSecretLength {
		return errors.InvalidInput(fmt.Sprintf("PIN must be at most %d bytes", constants.MaxSecretLength))
	}
	return nil
}

// ValidateText checks free-text fields such as display names and comments.
func ValidateText(field, value string) error {
	if utf8.RuneCountInString(value) > constants.MaxTextLength {
		return errors.InvalidInput(fmt.Sprintf("%s must be at most %d characters", field, constants.MaxTextLength))
	}
	return nil
}
