package ginmw

import (
	"github.com/gin-gonic/gin"
	okskema "github.com/reoring/okskema"
	"github.com/reoring/okskema/middleware"
)

// ValidateJSON validates the request body via schema s, stores the value in
// the request context, and aborts with the failures payload when invalid.
func ValidateJSON[T any](s okskema.Schema[T], opt middleware.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.DecodeRequest(c.Request, s, opt)
		if err != nil {
			status, payload := middleware.StatusAndPayload(err, opt)
			c.AbortWithStatusJSON(status, payload)
			return
		}
		// store value in request context
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the validated value from gin.Context.
func GetValue[T any](c *gin.Context) (T, bool) {
	return middleware.ValueFromContext[T](c.Request.Context())
}
