package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/schemaform/middleware"
	"github.com/reoring/schemaform/rules"
)

// ValidateJSON validates the request body against tree, stores the decoded
// value in the request context, and on failure aborts with 400 and the Issues
// payload.
func ValidateJSON(tree rules.Node) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, issues, err := middleware.Check(tree, c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(issues) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(issues))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the validated body from gin.Context.
func GetValue(c *gin.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
