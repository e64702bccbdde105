package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the API's dependencies: postgres, redis and the
// receipt job queue (pending and dead-lettered counts). Any degraded
// dependency flips the response to 503 so load balancers stop routing here.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "ok"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "ok"
		queue := gin.H{"pending": int64(0), "dlq": int64(0)}
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "error"
		} else {
			pending, _ := rdb.LLen(ctx, worker.QueueReceipts).Result()
			dlq, _ := rdb.LLen(ctx, worker.DLQPrefix+worker.QueueReceipts).Result()
			queue = gin.H{"pending": pending, "dlq": dlq}
		}

		status := http.StatusOK
		overall := "ok"
		if dbStatus != "ok" || redisStatus != "ok" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
			"queue":  queue,
		})
	}
}
