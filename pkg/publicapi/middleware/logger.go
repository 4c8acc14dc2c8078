package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddelware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger logs a single line per request, escalating the level with
// the response status so failures stand out of an info-level stream.
// Requests matched by any of the skippers are not logged at all.
func RequestLogger(logger zerolog.Logger, level zerolog.Level, skippers ...echomiddelware.Skipper) echo.MiddlewareFunc {
	return echomiddelware.RequestLoggerWithConfig(echomiddelware.RequestLoggerConfig{
		Skipper:      ChainedSkipper(skippers...),
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogRequestID: true,
		LogError:     true,
		// resolve the error to its final status before logging it
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddelware.RequestLoggerValues) error {
			logLevel := level
			if v.Status >= http.StatusInternalServerError && logLevel < zerolog.ErrorLevel {
				logLevel = zerolog.ErrorLevel
			} else if v.Status >= http.StatusBadRequest && logLevel < zerolog.WarnLevel {
				logLevel = zerolog.WarnLevel
			}

			event := logger.WithLevel(logLevel).
				Str("Method", v.Method).
				Str("URI", v.URI).
				Str("RemoteAddr", v.RemoteIP).
				Int("StatusCode", v.Status).
				Dur("Duration", v.Latency).
				Str("UserAgent", v.UserAgent).
				Str("RequestID", v.RequestID)
			if v.Error != nil {
				event = event.Str("Error", v.Error.Error())
			}
			event.Send()
			return nil
		},
	})
}
