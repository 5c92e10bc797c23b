package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

// RequireRole checks that the JWT carries one of the given roles.
func RequireRole(roles ...service.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}

		if len(roles) == 1 && roles[0] == service.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}
