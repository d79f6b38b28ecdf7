package middleware

import (
	"net/http"

	appsettings "github.com/campusmarket/backend/internal/application/settings"
	"github.com/campusmarket/backend/internal/domain/settings"
	"github.com/campusmarket/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Maintenance rejects write requests while the maintenance_mode setting
// is enabled. Reads stay available so clients can keep rendering.
func Maintenance(settingsService *appsettings.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		enabled, err := settingsService.GetBool(c.Request.Context(), settings.KeyMaintenanceMode, false)
		if err != nil {
			logger.Warn("maintenance mode check failed", zap.Error(err))
			c.Next()
			return
		}
		if !enabled {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(http.StatusServiceUnavailable, "MAINTENANCE_MODE",
				"The platform is under maintenance, please try again later"))
	}
}
