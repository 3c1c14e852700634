package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password storage modes
const (
	PasswordStorageBcrypt    = "bcrypt"
	PasswordStoragePlaintext = "plaintext"
)

// CredentialPolicy hashes passwords for storage and checks login attempts against them.
type CredentialPolicy interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

// NewCredentialPolicy returns the policy for mode. An empty mode means bcrypt.
// The plaintext mode stores and compares passwords verbatim and exists only
// for databases populated before hashing was introduced.
func NewCredentialPolicy(mode string) (CredentialPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", PasswordStorageBcrypt:
		return bcryptPolicy{cost: bcrypt.DefaultCost}, nil
	case PasswordStoragePlaintext:
		return plaintextPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown password storage mode %q", mode)
	}
}

type bcryptPolicy struct {
	cost int
}

func (p bcryptPolicy) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (p bcryptPolicy) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

type plaintextPolicy struct{}

func (plaintextPolicy) Hash(password string) (string, error) {
	return password, nil
}

func (plaintextPolicy) Matches(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
