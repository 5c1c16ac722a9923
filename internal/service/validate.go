package service

import "strings"

// Password limits applied on register and reset. bcrypt only accepts up to 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// validEmail applies the deliberately loose rule of the sign-up form: the
// address only has to contain "@".
func validEmail(email string) bool {
	return strings.Contains(email, "@")
}

// validPassword counts characters, not bytes.
func validPassword(password string) bool {
	return len([]rune(password)) >= MinPasswordLength
}

func passwordError(password string) error {
	if !validPassword(password) {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
