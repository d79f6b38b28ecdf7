package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	campusID := uuid.New()

	t.Run("creates user with valid fields", func(t *testing.T) {
		user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", campusID)

		require.NoError(t, err)
		assert.Equal(t, "alice@uni.edu", user.Email)
		assert.Equal(t, "hashed-pw", user.PasswordHash)
		assert.Equal(t, campusID, user.CampusID)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsVerified)
		assert.Nil(t, user.Rating)
		assert.NotZero(t, user.DateJoined)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		user, err := NewUser("Alice@Uni.EDU", "hashed-pw", "Alice", "Nguyen", "S12345", campusID)

		require.NoError(t, err)
		assert.Equal(t, "alice@uni.edu", user.Email)
	})

	t.Run("trims email whitespace", func(t *testing.T) {
		user, err := NewUser("  alice@uni.edu  ", "hashed-pw", "Alice", "Nguyen", "S12345", campusID)

		require.NoError(t, err)
		assert.Equal(t, "alice@uni.edu", user.Email)
	})

	t.Run("fails with empty email", func(t *testing.T) {
		_, err := NewUser("", "hashed-pw", "Alice", "Nguyen", "S12345", campusID)
		assert.Error(t, err)
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "hashed-pw", "Alice", "Nguyen", "S12345", campusID)
		assert.Error(t, err)
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		_, err := NewUser("alice@uni.edu", "", "Alice", "Nguyen", "S12345", campusID)
		assert.Error(t, err)
	})

	t.Run("fails without names", func(t *testing.T) {
		_, err := NewUser("alice@uni.edu", "hashed-pw", "", "Nguyen", "S12345", campusID)
		assert.Error(t, err)

		_, err = NewUser("alice@uni.edu", "hashed-pw", "Alice", "", "S12345", campusID)
		assert.Error(t, err)
	})

	t.Run("fails without student ID", func(t *testing.T) {
		_, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "", campusID)
		assert.Error(t, err)
	})

	t.Run("fails without campus", func(t *testing.T) {
		_, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.Nil)
		assert.Error(t, err)
	})
}

func TestUserFullName(t *testing.T) {
	user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Alice Nguyen", user.FullName())
}

func TestUserUpdateProfile(t *testing.T) {
	newUser := func(t *testing.T) *User {
		user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
		require.NoError(t, err)
		return user
	}

	t.Run("updates profile fields", func(t *testing.T) {
		user := newUser(t)
		phone := "+15551234"
		major := "Computer Science"
		semester := 4

		err := user.UpdateProfile("Alicia", "Nguyen", &phone, &major, &semester)

		require.NoError(t, err)
		assert.Equal(t, "Alicia", user.FirstName)
		assert.Equal(t, &phone, user.Phone)
		assert.Equal(t, &major, user.Major)
		assert.Equal(t, &semester, user.Semester)
		assert.Equal(t, 2, user.GetVersion())
	})

	t.Run("clears optional fields when nil", func(t *testing.T) {
		user := newUser(t)
		phone := "+15551234"
		require.NoError(t, user.UpdateProfile("Alice", "Nguyen", &phone, nil, nil))

		require.NoError(t, user.UpdateProfile("Alice", "Nguyen", nil, nil, nil))
		assert.Nil(t, user.Phone)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		user := newUser(t)
		err := user.UpdateProfile("", "Nguyen", nil, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive semester", func(t *testing.T) {
		user := newUser(t)
		semester := 0
		err := user.UpdateProfile("Alice", "Nguyen", nil, nil, &semester)
		assert.Error(t, err)
	})
}

func TestUserVerification(t *testing.T) {
	user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
	require.NoError(t, err)
	user.ClearDomainEvents()

	require.NoError(t, user.MarkVerified())
	assert.True(t, user.IsVerified)

	events := user.GetDomainEvents()
	require.Len(t, events, 1)
	_, ok := events[0].(*UserVerifiedEvent)
	assert.True(t, ok)

	err = user.MarkVerified()
	assert.Error(t, err)
}

func TestUserActivation(t *testing.T) {
	user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
	require.NoError(t, err)

	assert.Error(t, user.Reactivate())

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive)
	assert.Error(t, user.Deactivate())

	require.NoError(t, user.Reactivate())
	assert.True(t, user.IsActive)
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("new-hash"))
	assert.Equal(t, "new-hash", user.PasswordHash)

	assert.Error(t, user.ChangePassword(""))
}

func TestUserSetRating(t *testing.T) {
	user, err := NewUser("alice@uni.edu", "hashed-pw", "Alice", "Nguyen", "S12345", uuid.New())
	require.NoError(t, err)

	t.Run("accepts rating within range", func(t *testing.T) {
		rating := decimal.RequireFromString("4.25")
		require.NoError(t, user.SetRating(rating))
		require.NotNil(t, user.Rating)
		assert.True(t, user.Rating.Equal(rating))
	})

	t.Run("rejects rating below 1", func(t *testing.T) {
		assert.Error(t, user.SetRating(decimal.RequireFromString("0.5")))
	})

	t.Run("rejects rating above 5", func(t *testing.T) {
		assert.Error(t, user.SetRating(decimal.RequireFromString("5.5")))
	})
}
