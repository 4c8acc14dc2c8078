package publicapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"github.com/labstack/echo/v4"
	echomiddelware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sfdn-project/oracle-gateway/pkg/publicapi/middleware"
)

type Config struct {
	// These are TCP connection deadlines and not HTTP timeouts. They don't
	// control how long handlers may run; the server only notices them when
	// it touches the connection.
	ReadHeaderTimeout time.Duration // the amount of time allowed to read request headers
	ReadTimeout       time.Duration // the maximum duration for reading the entire request, including the body
	WriteTimeout      time.Duration // the maximum duration before timing out writes of the response

	// This represents maximum duration for handlers to complete, or else
	// fail the request with 503 error code.
	RequestHandlerTimeout time.Duration

	// MaxBytesToReadInBody is the size a request body may grow to before
	// it is rejected, in a form like "10MB".
	MaxBytesToReadInBody string

	// ThrottleLimit is the maximum number of requests per second per
	// client before the server starts returning 429s.
	ThrottleLimit int

	// LogLevel is the level request logs are emitted at.
	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		ReadHeaderTimeout:     10 * time.Second,
		ReadTimeout:           20 * time.Second,
		WriteTimeout:          20 * time.Second,
		RequestHandlerTimeout: 30 * time.Second,
		MaxBytesToReadInBody:  "10MB",
		ThrottleLimit:         1000,
		LogLevel:              "info",
	}
}

type ServerParams struct {
	Router  *echo.Echo
	Address string
	Port    uint16
	Config  Config

	// Headers are attached to every response, such as build version
	// headers.
	Headers map[string]string
}

// Server carries the gateway's HTTP listener and the middleware stack every
// endpoint group is served behind. Endpoints register themselves on the
// router before ListenAndServe is called.
type Server struct {
	Router  *echo.Echo
	Address string
	Port    uint16

	config     Config
	httpServer http.Server
}

// NewAPIServer configures the router's middleware and prepares a server
// listening on the given address, without accepting connections yet.
func NewAPIServer(params ServerParams) (*Server, error) {
	server := &Server{
		Router:  params.Router,
		Address: params.Address,
		Port:    params.Port,
		config:  params.Config,
	}

	// fill the blanks in the provided config with defaults
	if err := mergo.Merge(&server.config, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("merging default server config: %w", err)
	}
	logLevel, err := zerolog.ParseLevel(server.config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid request log level %q: %w", server.config.LogLevel, err)
	}

	server.Router.HideBanner = true
	server.Router.HidePort = true
	server.Router.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	// Middleware in registration order, outermost first. The request log
	// comes before everything else so rejections by the inner layers still
	// show up in it.
	server.Router.Use(middleware.RequestLogger(log.Logger, logLevel,
		middleware.PathMatchSkipper([]string{"/metrics"})))
	server.Router.Use(echomiddelware.RequestIDWithConfig(echomiddelware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	server.Router.Use(echomiddelware.Recover())
	if len(params.Headers) > 0 {
		server.Router.Use(middleware.ServerHeader(params.Headers))
	}
	server.Router.Use(echomiddelware.BodyLimit(server.config.MaxBytesToReadInBody))
	server.Router.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(
			tollbooth.NewLimiter(
				float64(server.config.ThrottleLimit),
				&limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour}),
			next)
	}))
	server.Router.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "publicapi")
	}))
	server.Router.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, server.config.RequestHandlerTimeout, "Server Timeout!")
	}))

	server.Router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server.httpServer = http.Server{
		Handler:           server.Router,
		ReadHeaderTimeout: server.config.ReadHeaderTimeout,
		ReadTimeout:       server.config.ReadTimeout,
		WriteTimeout:      server.config.WriteTimeout,
	}
	return server, nil
}

// GetURI returns the HTTP URI that the server is listening on.
func (apiServer *Server) GetURI() *url.URL {
	interpolated := fmt.Sprintf("http://%s:%d", apiServer.Address, apiServer.Port)
	parsed, err := url.Parse(interpolated)
	if err != nil {
		panic(fmt.Errorf("callback url must parse: %s", interpolated))
	}
	return parsed
}

// ListenAndServe starts accepting connections and returns without blocking.
// Port 0 picks a free port, readable from Port afterwards.
func (apiServer *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", apiServer.Address, apiServer.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if apiServer.Port == 0 {
		tcpAddr, ok := listener.Addr().(*net.TCPAddr)
		if !ok {
			return fmt.Errorf("unexpected listener address %q", listener.Addr())
		}
		apiServer.Port = uint16(tcpAddr.Port)
	}

	log.Ctx(ctx).Debug().Msgf("API server listening on %s", listener.Addr())

	go func() {
		err := apiServer.httpServer.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Ctx(ctx).Error().Err(err).Msg("api server stopped serving")
		}
	}()
	return nil
}

// Shutdown stops the server gracefully, waiting for in-flight requests up
// to the context deadline. Shutting down a server that never started is a
// no-op.
func (apiServer *Server) Shutdown(ctx context.Context) error {
	return apiServer.httpServer.Shutdown(ctx)
}
