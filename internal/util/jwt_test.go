package util

import (
	"school_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		Email: "student@example.com",
		Role:  model.Student,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Teacher}
	user.ID = 1

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestIsAllowedAvatarExt(t *testing.T) {
	assert.True(t, IsAllowedAvatarExt(".png"))
	assert.True(t, IsAllowedAvatarExt(".JPG"))
	assert.False(t, IsAllowedAvatarExt(".exe"))
	assert.False(t, IsAllowedAvatarExt(""))
}
