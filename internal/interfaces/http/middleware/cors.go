package middleware

import (
	"slices"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/infrastructure/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the gin-contrib/cors middleware from the HTTP configuration.
// With no allowed origins no CORS headers are emitted, so browsers reject
// every cross-origin request.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	if len(cfg.CORSAllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	corsConfig := cors.Config{
		AllowMethods:  cfg.CORSAllowMethods,
		AllowHeaders:  cfg.CORSAllowHeaders,
		ExposeHeaders: []string{HeaderRequestID, HeaderIdempotentReplayed},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(cfg.CORSAllowOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}
