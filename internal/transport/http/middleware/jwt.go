package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"meteo-server/internal/model"
	"meteo-server/internal/pkg/jwtutil"
	"meteo-server/internal/transport/http/response"
)

const ContextUserRefKey = "user_ref"

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		role, err := model.ParseRole(claims.Role)
		if err != nil || claims.UserID == 0 {
			response.Error(c, 401, response.CodeUnauthorized, "invalid token payload")
			c.Abort()
			return
		}

		c.Set(ContextUserRefKey, model.UserRef{Role: role, ID: claims.UserID})
		c.Next()
	}
}

// UserRefFromContext returns the authenticated account reference set by
// AuthJWT.
func UserRefFromContext(c *gin.Context) (model.UserRef, bool) {
	refAny, exists := c.Get(ContextUserRefKey)
	if !exists {
		return model.UserRef{}, false
	}
	ref, ok := refAny.(model.UserRef)
	return ref, ok && ref.Valid()
}
