package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"registro/database"
	"registro/version"
)

// HealthCheck health endpoint
func HealthCheck(c *gin.Context) {
	dbHealthy := database.SQLiteUp(c.Request.Context())

	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().Unix(),
		"version":    version.GetVersion(),
		"db_healthy": dbHealthy,
	}

	if !dbHealthy {
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// GetMetrics gathers system metrics
func GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().Unix(),
		"sqlite": gin.H{
			"busy_errors_total":   database.SQLiteBusyErrorsTotal(),
			"locked_errors_total": database.SQLiteLockedErrorsTotal(),
		},
		"system": gin.H{
			"goroutines":   runtime.NumGoroutine(),
			"memory_alloc": mem.Alloc,
			"memory_sys":   mem.Sys,
			"num_gc":       mem.NumGC,
		},
	})
}
