package middleware

import (
	"github.com/labstack/echo/v4"
)

// SetCrossOrigin returns a middleware which allows any origin to read the
// response, so dashboards can fetch feed data straight from a browser.
func SetCrossOrigin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			return next(c)
		}
	}
}
