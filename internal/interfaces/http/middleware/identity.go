package middleware

import (
	"net/http"

	"github.com/farmdesk/backend/internal/domain/identity"
	"github.com/farmdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CallerKey is the gin context key holding the resolved caller identity
const CallerKey = "caller"

// Identity resolves the caller from the X-User-ID and X-User-Role headers
// set by the authenticating reverse proxy. Requests without a usable
// identity are rejected before reaching any handler.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDHeader := c.GetHeader("X-User-ID")
		if userIDHeader == "" {
			abortUnauthorized(c, "Missing X-User-ID header")
			return
		}
		userID, err := uuid.Parse(userIDHeader)
		if err != nil || userID == uuid.Nil {
			abortUnauthorized(c, "Invalid X-User-ID header")
			return
		}

		role := identity.Role(c.GetHeader("X-User-Role"))
		if !role.IsValid() {
			abortUnauthorized(c, "Invalid or missing X-User-Role header")
			return
		}

		c.Set(CallerKey, identity.NewCaller(userID, role))
		c.Next()
	}
}

// GetCaller returns the caller identity set by the Identity middleware
func GetCaller(c *gin.Context) (identity.Caller, bool) {
	value, exists := c.Get(CallerKey)
	if !exists {
		return identity.Caller{}, false
	}
	caller, ok := value.(identity.Caller)
	return caller, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
