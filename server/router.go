package server

import (
	"net/http"
	"strconv"
	"time"

	"bggapi/handlers"
	"bggapi/middleware"
	"bggapi/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	CORSOrigins []string            // empty allows every origin
	Metrics     *monitoring.Metrics // nil disables HTTP metrics
}

// NewRouter wires the middleware chain and the single API route.
func NewRouter(games *handlers.GameHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.SecurityHeaders(),
		middleware.RemovePoweredBy(),
		cors.New(corsConfig(opts.CORSOrigins)),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.PrometheusMiddleware())
	}

	r.GET("/game/:id", games.GetGame)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewHTTPServer returns the API server listening on every interface.
func NewHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
