package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	for _, c := range []caller.Caller{
		caller.NewOwner(1, 2),
		caller.NewStaff(3, 2, 9),
		caller.NewCustomer(4),
	} {
		raw, err := tokens.Issue(c)
		require.NoError(t, err)

		got, err := tokens.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseRejectsWrongSecretAndExpired(t *testing.T) {
	issuer := NewTokens("secret", time.Hour)
	raw, err := issuer.Issue(caller.NewOwner(1, 2))
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := NewTokens("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsAnonymous(t *testing.T) {
	_, err := NewTokens("secret", time.Hour).Issue(caller.NewAnonymous())
	assert.Error(t, err)
}
