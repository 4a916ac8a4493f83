package auth

import (
	"fmt"
	"regexp"

	"github.com/asanchezr/bancoseguro/internal/common"
)

const minPasswordLength = 12

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-+=\[\]\\/~` + "`" + `]`)
)

// ValidatePassword applies the registration password policy. Failures map to
// common.ErrValidation with a reason suitable for the client.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", common.ErrValidation, minPasswordLength)
	}
	if !hasUpper.MatchString(password) {
		return fmt.Errorf("%w: debe contener al menos una letra mayúscula", common.ErrValidation)
	}
	if !hasLower.MatchString(password) {
		return fmt.Errorf("%w: debe contener al menos una letra minúscula", common.ErrValidation)
	}
	if !hasDigit.MatchString(password) {
		return fmt.Errorf("%w: debe contener al menos un número", common.ErrValidation)
	}
	if !hasSpecial.MatchString(password) {
		return fmt.Errorf("%w: debe contener al menos un carácter especial", common.ErrValidation)
	}
	return nil
}
