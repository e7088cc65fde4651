package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"llm-gateway/internal/config"
	middleware "llm-gateway/internal/interfaces/httpserver/middlewares"
	"llm-gateway/internal/interfaces/httpserver/routes"
)

type HTTPServer struct {
	engine   *gin.Engine
	apiRoute *routes.APIRoute
	config   *config.Config
}

func NewHTTPServer(
	apiRoute *routes.APIRoute,
	cfg *config.Config,
	log zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine:   gin.New(),
		apiRoute: apiRoute,
		config:   cfg,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.LoggingMiddleware(log))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.apiRoute.RegisterRouter(server.engine.Group("/"))
	return &server
}

// Engine exposes the configured router, used by tests to serve requests
// without binding a port.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

func (s *HTTPServer) Run() error {
	return s.engine.Run(fmt.Sprintf(":%d", s.config.HTTPPort))
}
