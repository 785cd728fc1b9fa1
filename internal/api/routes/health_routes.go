package routes

import (
	"net/http"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/cache"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// SetupHealthRoutes registers health check and metrics endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		checks := map[string]string{}
		status := "ready"
		code := http.StatusOK

		if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			checks["database"] = "unreachable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				checks["redis"] = "unreachable"
			} else {
				checks["redis"] = "ok"
			}
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
