package middleware

import (
	"github.com/labstack/echo/v4"
)

// ServerHeader returns a middleware that attaches the given headers to every
// response, such as the build version headers clients use to detect skew.
func ServerHeader(headers map[string]string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for key, value := range headers {
				c.Response().Header().Set(key, value)
			}
			return next(c)
		}
	}
}
