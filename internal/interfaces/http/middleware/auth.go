package middleware

import (
	"net/http"
	"strings"

	"github.com/campusmarket/backend/internal/infrastructure/auth"
	applog "github.com/campusmarket/backend/internal/infrastructure/logger"
	"github.com/campusmarket/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	ClaimsKey   = "auth_claims"
	UserIDKey   = "auth_user_id"
	CampusIDKey = "auth_campus_id"
)

// Auth validates the bearer token and checks it against the blacklist.
// Claims land in the gin context for handlers.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "Authorization header must be a bearer token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("token blacklist check failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"))
				return
			}
			if !revoked && claims.IssuedAt != nil {
				revoked, err = blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					logger.Error("token invalidation check failed", zap.Error(err))
					c.AbortWithStatusJSON(http.StatusInternalServerError,
						dto.NewErrorResponse(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"))
					return
				}
			}
			if revoked {
				abortUnauthorized(c, "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(CampusIDKey, claims.CampusID)

		// propagate identity into the request context so SQL and
		// event logs correlate with the user
		ctx, reqLogger := applog.WithUserID(c.Request.Context(), applog.FromContext(c.Request.Context()), claims.UserID)
		if claims.CampusID != "" {
			ctx, reqLogger = applog.WithCampusID(ctx, reqLogger, claims.CampusID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", reqLogger)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(http.StatusUnauthorized, "UNAUTHORIZED", message))
}
