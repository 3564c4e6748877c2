package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallerTokenService_IssueAndVerify(t *testing.T) {
	tokens := NewCallerTokenService("signing-key", "looply", "looply-spotify")

	signed, err := tokens.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestCallerTokenService_Rejects(t *testing.T) {
	tokens := NewCallerTokenService("signing-key", "looply", "looply-spotify")

	_, err := tokens.IssueToken("", time.Hour)
	assert.Error(t, err)

	expired, err := tokens.IssueToken("user-1", -time.Minute)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(expired)
	assert.Error(t, err)

	foreign, err := NewCallerTokenService("other-key", "looply", "looply-spotify").IssueToken("user-1", time.Hour)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(foreign)
	assert.Error(t, err)

	otherIssuer, err := NewCallerTokenService("signing-key", "someone-else", "looply-spotify").IssueToken("user-1", time.Hour)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(otherIssuer)
	assert.Error(t, err)

	_, err = tokens.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

func TestCallerTokenService_SubjectClaim(t *testing.T) {
	tokens := NewCallerTokenService("signing-key", "", "")

	signed, err := tokens.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	claims := &CallerClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("signing-key"), nil
	}, jwt.WithSubject("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("signing-key"))
	require.NoError(t, err)

	_, err = tokens.VerifyToken(noSubject)
	assert.Error(t, err)
}
