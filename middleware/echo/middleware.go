package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/schemaform/middleware"
	"github.com/reoring/schemaform/rules"
)

// ValidateJSON validates the request body against tree, stores the decoded
// value in the request context, or returns 400 with Issues when validation
// fails.
func ValidateJSON(tree rules.Node) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, issues, err := middleware.Check(tree, c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			if len(issues) > 0 {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(issues))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the validated body from echo.Context.
func GetValue(c echo.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
