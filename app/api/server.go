package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler, staticDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware so the client bundle can be served from elsewhere
	// during development
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, staticDir)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, staticDir string) {
	api := r.Group("/api")
	{
		api.GET("/config", handler.GetConfig)
		api.GET("/headlines", handler.GetHeadlines)
		api.GET("/calendar/month", handler.GetCalendarMonth)
		api.GET("/calendar/upcoming", handler.GetCalendarUpcoming)
		api.GET("/weather", handler.GetWeather)
		api.GET("/wallpaper/next", handler.GetNextWallpaper)
		api.GET("/wallpaper/random", handler.GetRandomWallpaper)
		api.POST("/wallpaper/reset", handler.ResetWallpaperRotation)
		api.GET("/status", handler.GetStatus)
	}

	r.GET("/health", handler.HealthCheck)

	// Secrets must not be publicly fetchable even if a raw config file ends
	// up inside the static dir.
	r.GET("/config.yml", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	// Static client bundle with SPA fallback
	if staticDir != "" {
		indexPath := filepath.Join(staticDir, "index.html")
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}

			requested := filepath.Join(staticDir, filepath.Clean("/"+c.Request.URL.Path))
			if info, err := os.Stat(requested); err == nil && !info.IsDir() {
				c.File(requested)
				return
			}

			if _, err := os.Stat(indexPath); err != nil {
				c.String(http.StatusServiceUnavailable, "Build required: no client bundle found in %s", staticDir)
				return
			}
			c.File(indexPath)
		})
	}
}
