package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampus(t *testing.T) {
	t.Run("creates campus with valid fields", func(t *testing.T) {
		campus, err := NewCampus("State University", "Springfield", "uni.edu")

		require.NoError(t, err)
		assert.Equal(t, "State University", campus.Name)
		assert.Equal(t, "uni.edu", campus.EmailDomain)
		assert.True(t, campus.IsActive)
	})

	t.Run("normalizes email domain to lowercase", func(t *testing.T) {
		campus, err := NewCampus("State University", "Springfield", "Uni.EDU")

		require.NoError(t, err)
		assert.Equal(t, "uni.edu", campus.EmailDomain)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCampus("", "Springfield", "uni.edu")
		assert.Error(t, err)
	})

	t.Run("fails with empty location", func(t *testing.T) {
		_, err := NewCampus("State University", "", "uni.edu")
		assert.Error(t, err)
	})

	t.Run("fails with malformed email domain", func(t *testing.T) {
		_, err := NewCampus("State University", "Springfield", "")
		assert.Error(t, err)

		_, err = NewCampus("State University", "Springfield", "@uni.edu")
		assert.Error(t, err)

		_, err = NewCampus("State University", "Springfield", "localhost")
		assert.Error(t, err)
	})
}

func TestCampusMatchesEmail(t *testing.T) {
	campus, err := NewCampus("State University", "Springfield", "uni.edu")
	require.NoError(t, err)

	assert.True(t, campus.MatchesEmail("alice@uni.edu"))
	assert.True(t, campus.MatchesEmail("alice@UNI.EDU"))
	assert.False(t, campus.MatchesEmail("alice@other.edu"))
	assert.False(t, campus.MatchesEmail("alice@sub.uni.edu"))
	assert.False(t, campus.MatchesEmail("no-at-sign"))
}

func TestCampusActivation(t *testing.T) {
	campus, err := NewCampus("State University", "Springfield", "uni.edu")
	require.NoError(t, err)

	assert.Error(t, campus.Activate())

	require.NoError(t, campus.Deactivate())
	assert.False(t, campus.IsActive)
	assert.Error(t, campus.Deactivate())

	require.NoError(t, campus.Activate())
	assert.True(t, campus.IsActive)
}

func TestCampusUpdate(t *testing.T) {
	campus, err := NewCampus("State University", "Springfield", "uni.edu")
	require.NoError(t, err)

	require.NoError(t, campus.Update("State Uni", "Shelbyville"))
	assert.Equal(t, "State Uni", campus.Name)
	assert.Equal(t, "Shelbyville", campus.Location)
	assert.Equal(t, 2, campus.GetVersion())

	assert.Error(t, campus.Update("", "Shelbyville"))
}
