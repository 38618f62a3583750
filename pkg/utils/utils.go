package utils

import (
	"net/mail"
)

// IsEmail returns true if the string is a bare, valid email address.
func IsEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
