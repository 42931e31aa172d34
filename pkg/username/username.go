// Package username derives display names for accounts provisioned without
// one, such as first-time federated sign-ins.
package username

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const defaultName = "user"

// FromEmail builds a display name from the local part of an email address,
// appending the requested number of random digits so two accounts derived
// from similar addresses do not collide.
func FromEmail(email string, digits int) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}

	// Plus tags are routing detail, not identity.
	if i := strings.IndexByte(local, '+'); i >= 0 {
		local = local[:i]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		name = defaultName
	}

	for i := 0; i < digits; i++ {
		name += randomDigit()
	}
	return name
}

func randomDigit() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return "0"
	}
	return n.String()
}
