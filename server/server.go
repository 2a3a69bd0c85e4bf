// ABOUTME: HTTP surface for the sync and data-quality engine
// ABOUTME: gin router with zap logging, request ids, and Prometheus metrics
package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/models"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "boondsync_operations_total",
	Help: "Engine operations served over HTTP, by operation and outcome.",
}, []string{"operation", "outcome"})

// Deps are the engine components the server fronts. Interfaces so tests can
// substitute fakes.
type Deps struct {
	Sync       SyncRunner
	Analyzer   Analyzer
	Dictionary DictionaryGetter
	Clients    map[models.Environment]boond.API
}

// Server exposes the engine operations over HTTP.
type Server struct {
	deps   Deps
	router *gin.Engine
}

// New builds the router with its middleware and routes.
func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Access log and panic recovery through zap, RFC3339 UTC timestamps.
	router.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))
	router.Use(requestID())

	s := &Server{deps: deps, router: router}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync", s.handleSync)
		v1.GET("/quality", s.handleQuality)
		v1.GET("/export", s.handleExport)
		v1.GET("/dictionary", s.handleDictionary)
	}

	return s
}

// Handler returns the underlying router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	zap.S().Infow("http server starting", "addr", addr)
	return s.router.Run(addr)
}

// requestID tags every request with an id that shows up in responses and
// can be correlated with logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("requestID", id)
		c.Next()
	}
}
