package verify

import (
	"math/rand/v2"
	"strings"
)

const lowercaseLetters = "abcdefghijklmnopqrstuvwxyz"

// Credentials are the account details used for one feature run.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// RandomString returns n random lowercase ASCII letters.
func RandomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(lowercaseLetters[rand.IntN(len(lowercaseLetters))]) //nolint: gosec
	}

	return b.String()
}

// NewCredentials builds credentials with a fresh random email so that each
// run signs up a new account.
func NewCredentials(name, emailDomain string, emailLength int, password string) Credentials {
	return Credentials{
		Name:     name,
		Email:    RandomString(emailLength) + "@" + emailDomain,
		Password: password,
	}
}
