package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusmarket/backend/internal/infrastructure/auth"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	applog "github.com/campusmarket/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthRig(t *testing.T) (*auth.JWTService, *gin.Engine, *struct{ userID, campusID string }) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough!",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "campus-market-test",
	})

	seen := &struct{ userID, campusID string }{}

	r := gin.New()
	r.Use(Auth(jwtService, nil, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		seen.userID = applog.GetUserID(c.Request.Context())
		seen.campusID = applog.GetCampusID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})

	return jwtService, r, seen
}

func TestAuth_MissingHeader(t *testing.T) {
	_, r, _ := newAuthRig(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, r, _ := newAuthRig(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	_, r, _ := newAuthRig(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// a valid token must land the caller's identity both in the gin
// context and in the request context for log correlation
func TestAuth_PropagatesIdentity(t *testing.T) {
	jwtService, r, seen := newAuthRig(t)

	userID := uuid.New()
	campusID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     userID,
		CampusID:   campusID,
		Email:      "student@campus.edu",
		IsVerified: true,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), seen.userID)
	assert.Equal(t, campusID.String(), seen.campusID)
}
