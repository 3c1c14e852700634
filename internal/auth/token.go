// Package auth issues and verifies the signed bearer tokens used by the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// InsecureDefaultSecret is used when no signing secret is configured.
// Anyone who knows it can mint tokens; configure jwt.secret in every real deployment.
const InsecureDefaultSecret = "defaultSecretKey123!@#"

// DefaultTokenTTL is the lifetime of tokens issued at login.
const DefaultTokenTTL = 24 * time.Hour

// --- Error Definitions ---
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
)

// Identity is the authenticated principal carried by a verified token.
type Identity struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role string) bool {
	return i.Role == role
}

// tokenClaims defines the structure of the JWT payload.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec creates and verifies HS256 tokens with a shared secret.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a TokenCodec.
type Option func(*TokenCodec)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec signing with secret. An empty secret falls
// back to InsecureDefaultSecret.
func NewTokenCodec(secret string, opts ...Option) *TokenCodec {
	if secret == "" {
		secret = InsecureDefaultSecret
	}
	c := &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
		// Expiry is checked against our own clock below, so the parser only
		// verifies structure, algorithm and signature.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for subject with the given role, valid for ttl.
func (c *TokenCodec) Issue(subject, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := c.now()
	claims := &tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry of raw and returns its identity.
// It returns ErrMalformed, ErrInvalidSignature or ErrExpired on failure.
func (c *TokenCodec) Verify(raw string) (Identity, error) {
	claims := &tokenClaims{}
	_, err := c.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Identity{}, ErrMalformed
		}
		// Wrong algorithm, bad signature, or an unverifiable token.
		return Identity{}, ErrInvalidSignature
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Identity{}, ErrMalformed
	}
	if !c.now().Before(claims.ExpiresAt.Time) {
		return Identity{}, ErrExpired
	}

	return Identity{Subject: claims.Subject, Role: claims.Role}, nil
}
