package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("secret", 42, "d@x.com", "donor",
		map[string]any{"full_name": "Jane"}, 24*time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), tok.Exp, time.Minute)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)

	id, err := claims.AccountID()
	require.NoError(t, err)
	require.Equal(t, uint64(42), id)
	require.Equal(t, "d@x.com", claims.Email)
	require.Equal(t, "donor", claims.Role)
	require.Equal(t, "Jane", claims.Profile["full_name"])
}

func TestParseSessionTokenExpired(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("secret", 1, "a@x.com", "donor", nil, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Token)
	require.Error(t, err)
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionToken("right", 1, "a@x.com", "donor", nil, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("wrong", tok.Token)
	require.Error(t, err)
}

func TestParseSessionTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParseSessionToken("secret", "not.a.jwt")
	require.Error(t, err)
}
