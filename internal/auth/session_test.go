package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-session-testing"

func TestIssue(t *testing.T) {
	issuer := NewIssuer(testSecret, 24*time.Hour)

	token, err := issuer.Issue(123, "alice")

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 123, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_InvalidSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)
	token, err := issuer.Issue(789, "bob")
	require.NoError(t, err)

	other := NewIssuer("wrong-secret", time.Hour)
	claims, err := other.Verify(token)

	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerify_ExpiredSession(t *testing.T) {
	// Negative TTL produces an already-expired token.
	issuer := NewIssuer(testSecret, -time.Hour)
	token, err := issuer.Issue(101, "carol")
	require.NoError(t, err)

	claims, err := NewIssuer(testSecret, time.Hour).Verify(token)

	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestVerify_MalformedToken(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Random string",
			token: "not-a-valid-session-token",
		},
		{
			name:  "Incomplete JWT",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Verify(tt.token)

			assert.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestVerify_WrongSigningMethod(t *testing.T) {
	// Token signed with "none" must be rejected even with a valid payload.
	claims := SessionClaims{
		UserID:   999,
		Username: "mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	issuer := NewIssuer(testSecret, time.Hour)
	parsed, err := issuer.Verify(tokenString)

	assert.Error(t, err)
	assert.Nil(t, parsed)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerify_AcceptedUntilWindowEnd(t *testing.T) {
	issuer := NewIssuer(testSecret, 2*time.Second)
	token, err := issuer.Issue(7, "dave")
	require.NoError(t, err)

	// Accepted immediately after issuance.
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	// Rejected once the window has passed.
	time.Sleep(3 * time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := GeneratePasswordHash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	assert.NoError(t, ComparePasswordHash([]byte(hash), "secret1"))
	assert.Error(t, ComparePasswordHash([]byte(hash), "secret2"))
}
