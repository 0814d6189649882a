package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"ministryhub/cmd/middleware"
	"ministryhub/internal/dto"
	"ministryhub/internal/metrics"
	"ministryhub/internal/service"
)

type Routers struct {
	Service  service.Service
	Sessions middleware.SessionValidator
	// StaticDir, when set, is served for every path outside /api.
	StaticDir string
	// CORSOrigins lists the cross-origin callers allowed to send credentials.
	CORSOrigins []string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(middleware.MetricsMiddleware())
	app.Use(cors.New(corsConfig(r.CORSOrigins)))

	app.GET("/metrics", func(c *ginext.Context) {
		metrics.Handler().ServeHTTP(c.Writer, c.Request)
	})

	apiGroup := app.Group("/api")
	admin := middleware.AdminOnly(r.Sessions)

	apiGroup.POST("/admin/login", r.Service.Login)
	apiGroup.POST("/admin/logout", r.Service.Logout)
	apiGroup.GET("/admin/check", r.Service.AdminCheck)

	apiGroup.GET("/videos", r.Service.GetVideos)
	apiGroup.POST("/videos", admin, r.Service.CreateVideo)
	apiGroup.PUT("/videos/:id", admin, r.Service.UpdateVideo)
	apiGroup.DELETE("/videos/:id", admin, r.Service.DeleteVideo)

	apiGroup.GET("/registrations", admin, r.Service.GetRegistrations)
	apiGroup.POST("/registrations", r.Service.CreateRegistration)
	apiGroup.PUT("/registrations/:id", admin, r.Service.UpdateRegistration)
	apiGroup.DELETE("/registrations/:id", admin, r.Service.DeleteRegistration)

	apiGroup.GET("/ministry-settings", r.Service.GetMinistrySettings)
	apiGroup.GET("/ministry-settings/:ministryType", r.Service.GetMinistrySettingsByType)
	apiGroup.POST("/ministry-settings", admin, r.Service.UpsertMinistrySettings)

	apiGroup.GET("/site-settings/podcast", r.Service.GetPodcastSettings)
	apiGroup.PUT("/site-settings/podcast", admin, r.Service.UpdatePodcastSettings)

	apiGroup.GET("/youtube/status", admin, r.Service.YouTubeStatus)
	apiGroup.POST("/youtube/sync", admin, r.Service.SyncYouTube)

	apiGroup.POST("/seed", admin, r.Service.Seed)

	if r.StaticDir != "" {
		serveStatic(app, r.StaticDir)
	}

	return app
}

// corsConfig allows credentialed requests only from the listed origins. With no
// list any origin may read public data, but cookies are not honored cross-site.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization")
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// serveStatic serves files from dir and falls back to index.html so client-side
// routes resolve. Unknown /api paths still answer 404 JSON.
func serveStatic(app *ginext.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	app.NoRoute(func(c *ginext.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, dto.Response{Error: "Not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		file := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	})
}
