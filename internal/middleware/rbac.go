package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/authz"
)

// Authorize lets the request through when the caller's role may act on
// obj. Safe methods need read access, everything else write access.
func Authorize(enf *authz.Enforcer, obj authz.Resource, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		act := authz.ActWrite
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			act = authz.ActRead
		}

		allowed, err := enf.Allowed(caller.Role, obj, act)
		if err != nil {
			log.Error("authorization check failed", "role", caller.Role, "resource", obj, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
		c.Next()
	}
}
