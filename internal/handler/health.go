package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the service and its dependencies.
// Redis is optional (notifications are best-effort), so a redis outage
// degrades the report without failing it.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		if rdb == nil {
			redisStatus = "disabled"
		} else if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{
			"status":   overall,
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}
