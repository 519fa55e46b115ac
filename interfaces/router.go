package interfaces

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	CORSOrigins []string
	// Limiter guards the generation endpoint. Nil disables rate limiting.
	Limiter *ClientLimiter
}

// NewRouter registers the job description API on a fresh gin engine.
func NewRouter(h *HTTPHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false

	r.Use(RequestID(), AccessLog(h.Logger), Recover(h.Logger))

	corsCfg := cors.DefaultConfig()
	if len(opts.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = opts.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "The requested URL was not found on the server.", nil)
	})
	r.NoMethod(func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.", nil)
	})

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	api := r.Group("/api/jd")
	{
		generate := []gin.HandlerFunc{h.Generate}
		if opts.Limiter != nil {
			generate = append([]gin.HandlerFunc{opts.Limiter.Middleware()}, generate...)
		}
		api.POST("/generate", generate...)

		api.POST("", h.Create)
		api.POST("/", h.Create)
		api.GET("", h.List)
		api.GET("/", h.List)

		api.GET("/:id", h.Get)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
	}

	return r
}
