package httptransport

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/platform/config"
	"gameshelf-server-go/internal/platform/logging"
)

// Options configures the HTTP router builder.
type Options struct {
	Config      *config.Config
	Logger      *logging.Logger
	AuthFilter  gin.HandlerFunc
	PolicyGuard gin.HandlerFunc
}

// Router bundles together the gin engine and the /api route group.
type Router struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
}

// Build constructs a gin engine pre-configured with recovery, logging, CORS,
// static file serving and the authentication filter plus policy guard.
func Build(opts Options) (*Router, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("http router requires config")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("http router requires logger")
	}

	if strings.EqualFold(opts.Config.Log.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(opts.Logger))

	engine.SetTrustedProxies([]string{"0.0.0.0"})

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if dir := opts.Config.Web.StaticDir; dir != "" {
		engine.Use(static.Serve("/", static.LocalFile(dir, true)))
	}
	if dir := opts.Config.Web.UploadDir; dir != "" {
		engine.Use(static.Serve("/uploads", static.LocalFile(dir, false)))
	}

	api := engine.Group("/api")
	if opts.AuthFilter != nil {
		api.Use(opts.AuthFilter)
	}
	if opts.PolicyGuard != nil {
		api.Use(opts.PolicyGuard)
	}

	return &Router{
		Engine: engine,
		API:    api,
	}, nil
}

func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		logger.Info("[HTTP] %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, status, duration)
	}
}
