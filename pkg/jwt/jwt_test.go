package jwt

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate(secret, "user-1", "Ana", "retail-ledger", 5)
	require.NoError(t, err)

	claims, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "retail-ledger", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate(secret, "user-1", "", "x", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate(secret, "user-1", "", "x", -1)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_FallsBackToSubject(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{Subject: "user-9"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	claims, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
}

func TestGenerate_RequiresSecretAndUser(t *testing.T) {
	_, err := Generate("", "user-1", "", "x", 5)
	assert.Error(t, err)
	_, err = Generate(secret, "", "", "x", 5)
	assert.Error(t, err)
}
