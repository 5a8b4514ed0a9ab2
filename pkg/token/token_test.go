package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", 8*time.Hour)

	signed, expiresAt, err := issuer.Issue("user-1")
	assert.Nil(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), expiresAt, time.Minute)

	id, err := issuer.Parse(signed)
	assert.Nil(t, err)
	assert.Equal(t, "user-1", id)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	signed, _, err := NewIssuer("other-secret", time.Hour).Issue("user-1")
	assert.Nil(t, err)

	_, err = NewIssuer("test-secret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseReportsExpiry(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, err := issuer.Issue("user-1")
	assert.Nil(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("test-secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
