package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-status-backend/config"
	"parking-status-backend/internal/mw"
	"parking-status-backend/internal/parking"
	"parking-status-backend/internal/store"
	"parking-status-backend/internal/ws"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, svc *parking.Service, hub *ws.Hub, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AllowMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
		r.Use(cors.New(corsCfg))
	}

	handler := NewHandler(s, svc, webpushOptions, cfg.Reports.DefaultWindowDays)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"message":   "Parking System API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		pk := api.Group("/parking")
		{
			pk.GET("/spots", handler.GetSpots)
			pk.GET("/spots/:id", handler.GetSpot)
			pk.PUT("/spots/:id/status", handler.PutSpotStatus)
			pk.GET("/stats", handler.GetStats)
		}

		// Reports are read-only aggregates; a short cache absorbs dashboard
		// refresh bursts.
		reports := api.Group("/reports")
		{
			reports.GET("/daily", caching, handler.GetDailyReport)
			reports.GET("/weekly", caching, handler.GetWeeklyReport)
			reports.GET("/monthly", caching, handler.GetMonthlyReport)
			reports.GET("/analytics", caching, handler.GetAnalytics)
			reports.GET("/history", handler.GetHistory)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	if hub != nil {
		r.GET("/ws", hub.Handle)
	}

	if cfg.Server.StaticDir != "" {
		r.Static("/app", cfg.Server.StaticDir)
	}

	return r
}
