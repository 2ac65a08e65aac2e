package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/requestdata"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type RoleMiddleware struct {
	log          *logger.Logger
	userRoleRepo repos.UserRoleRepo
}

func NewRoleMiddleware(log *logger.Logger, userRoleRepo repos.UserRoleRepo) *RoleMiddleware {
	middlewareLogger := log.With("Middleware", "RoleMiddleware")
	return &RoleMiddleware{log: middlewareLogger, userRoleRepo: userRoleRepo}
}

// RequireRole must run after RequireAuth; it reads the user from request data.
func (rm *RoleMiddleware) RequireRole(roles ...types.AppRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		ok, err := rm.userRoleRepo.HasAnyRole(c.Request.Context(), nil, rd.UserID, roles)
		if err != nil {
			rm.log.Warn("Failed to check user roles", "userID", rd.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to check roles"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
