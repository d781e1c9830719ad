package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/dentaclinic-api/internal/middleware"
	"github.com/harentsoaR/dentaclinic-api/internal/models"
	"github.com/harentsoaR/dentaclinic-api/internal/services"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
	"github.com/harentsoaR/dentaclinic-api/internal/utils"
)

var bindingNames sync.Once

// registerBindingNames makes gin's request validator report JSON field
// names.
func registerBindingNames() {
	bindingNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
		}
	})
}

// respondError maps a service error to a status code and {"error": msg}.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrSuperAdminExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenRevoked),
		errors.Is(err, utils.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	default:
		_ = c.Error(err)
		h.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(),
			"requestId", middleware.RequestIDFrom(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			msg := (&models.FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}).Error()
			c.JSON(http.StatusBadRequest, gin.H{"error": msg, "field": fe.Field()})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// currentCaller returns the authenticated caller or answers 401.
func currentCaller(c *gin.Context) (services.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return services.Caller{}, false
	}
	return caller, true
}

// idParam parses the path parameter name as an ObjectID or answers 400.
func idParam(c *gin.Context, name, entity string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + entity + " ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// emptyIfNil keeps list responses as [] rather than null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
