package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/constants"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/services"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

// RequireAuth validates the Bearer token and checks that its device session
// has not been revoked. A signed, unexpired token is rejected the moment
// its device session row is gone.
func RequireAuth(jwtSecret string, deviceRepo repository.DeviceSessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			errors.Unauthorized(c, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		live, err := deviceRepo.Exists(claims.DeviceToken)
		if err != nil {
			errors.InternalError(c, "")
			c.Abort()
			return
		}
		if !live {
			errors.UnauthorizedWithCode(c, errors.ErrCodeSessionRevoked, "Session has been revoked")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyRole, claims.Role)
		c.Set(constants.ContextKeyDeviceToken, claims.DeviceToken)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString(constants.ContextKeyRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		errors.Forbidden(c, "")
		c.Abort()
	}
}

// GetIdentity reads the authenticated caller from the request context.
func GetIdentity(c *gin.Context) services.Identity {
	return services.Identity{
		UserID: c.GetString(constants.ContextKeyUserID),
		Role:   models.Role(c.GetString(constants.ContextKeyRole)),
	}
}

// GetDeviceToken reads the caller's device token from the request context.
func GetDeviceToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyDeviceToken)
}
