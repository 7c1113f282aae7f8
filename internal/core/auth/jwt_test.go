package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "enquiry-service", TTL: ttl}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer(0)
	tok, err := j.Issue("tok-1", 42, time.Now())
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", c.TokenID())
	uid, err := c.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
	assert.Nil(t, c.ExpiresAt)
}

func TestParse_Expired(t *testing.T) {
	j := newJWTer(time.Minute)
	tok, err := j.Issue("tok-1", 1, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestParse_WrongSecretOrIssuer(t *testing.T) {
	tok, err := newJWTer(0).Issue("tok-1", 1, time.Now())
	require.NoError(t, err)

	other := &JWTer{Secret: []byte("other"), Issuer: "enquiry-service"}
	_, err = other.Parse(tok)
	assert.Error(t, err)

	wrongIss := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else"}
	_, err = wrongIss.Parse(tok)
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := newJWTer(0).Parse("1|plain-text-token")
	assert.Error(t, err)
}

func TestExpiresAt(t *testing.T) {
	now := time.Now()
	assert.Nil(t, newJWTer(0).ExpiresAt(now))
	got := newJWTer(time.Hour).ExpiresAt(now)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(time.Hour), *got)
}
