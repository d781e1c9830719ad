package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaclinic-api/internal/services"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

const (
	ctxClaims = "claims"
	ctxCaller = "caller"
)

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

// AuthMiddleware requires a valid, unrevoked bearer token and stores the
// caller it names in the context. Identity never comes from any other
// request header.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(tokenString))
		if errors.Is(err, services.ErrAccountInactive) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is inactive or suspended"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		caller, err := services.CallerFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxCaller, caller)
		c.Next()
	}
}

// CallerFrom returns the caller stored by AuthMiddleware.
func CallerFrom(c *gin.Context) (services.Caller, bool) {
	v, ok := c.Get(ctxCaller)
	if !ok {
		return services.Caller{}, false
	}
	caller, ok := v.(services.Caller)
	return caller, ok
}

func ClaimsFrom(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
