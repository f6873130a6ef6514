package echomw

import (
	"github.com/labstack/echo/v4"
	okskema "github.com/reoring/okskema"
	"github.com/reoring/okskema/middleware"
)

// ValidateJSON validates the request body via schema s and stores the value in
// the request context on success. Failures are answered with opt.Status (422
// by default) and the failures payload; unreadable bodies with 4xx.
func ValidateJSON[T any](s okskema.Schema[T], opt middleware.Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.DecodeRequest(c.Request(), s, opt)
			if err != nil {
				status, payload := middleware.StatusAndPayload(err, opt)
				if opt.Logger != nil {
					opt.Logger.InfoContext(c.Request().Context(), "request rejected", "path", c.Path(), "status", status)
				}
				return c.JSON(status, payload)
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the validated value from echo.Context.
func GetValue[T any](c echo.Context) (T, bool) {
	return middleware.ValueFromContext[T](c.Request().Context())
}
