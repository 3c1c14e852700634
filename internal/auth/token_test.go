package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newTestCodec(secret string) (*TokenCodec, *fakeClock) {
	clock := &fakeClock{t: epoch}
	return NewTokenCodec(secret, WithClock(clock.Now)), clock
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, clock := newTestCodec("s3cret")

	token, err := codec.Issue("alice", "user", time.Hour)
	require.NoError(t, err)

	clock.t = epoch.Add(59 * time.Minute)
	id, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "alice", Role: "user"}, id)
	assert.True(t, id.HasRole("user"))
	assert.False(t, id.HasRole("admin"))
}

func TestVerifyExpiry(t *testing.T) {
	codec, clock := newTestCodec("s3cret")
	token, err := codec.Issue("admin", "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"one second before exp", epoch.Add(time.Hour - time.Second), nil},
		{"exactly at exp", epoch.Add(time.Hour), ErrExpired},
		{"after exp", epoch.Add(2 * time.Hour), ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.t = tt.at
			_, err := codec.Verify(token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyRejectsAlteredSignature(t *testing.T) {
	codec, _ := newTestCodec("s3cret")
	token, err := codec.Issue("alice", "user", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	issuer, _ := newTestCodec("one")
	verifier, _ := newTestCodec("two")

	token, err := issuer.Issue("alice", "user", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	codec, _ := newTestCodec("s3cret")
	claims := &tokenClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = codec.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	codec, _ := newTestCodec("s3cret")

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", raw)
	}
}

func TestVerifyRequiresSubjectAndExpiry(t *testing.T) {
	codec, _ := newTestCodec("s3cret")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = codec.Verify(noExp)
	assert.ErrorIs(t, err, ErrMalformed)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour))},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = codec.Verify(noSub)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestIssueDefaultsTTLAndSecret(t *testing.T) {
	codec, clock := newTestCodec("")
	token, err := codec.Issue("alice", "user", 0)
	require.NoError(t, err)

	clock.t = epoch.Add(DefaultTokenTTL - time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	other := NewTokenCodec(InsecureDefaultSecret, WithClock(clock.Now))
	_, err = other.Verify(token)
	assert.NoError(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{Subject: "bob", Role: "user"})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "bob", id.Subject)
}
