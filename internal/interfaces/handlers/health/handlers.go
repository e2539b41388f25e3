package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger is anything with a Ping, e.g. the SQL DB behind GORM.
type Pinger interface {
	Ping() error
}

// Handlers reports liveness of the DB and Redis.
type Handlers struct {
	DB  Pinger
	Rdb *redis.Client
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	dbStatus := "not configured"
	if h.DB != nil {
		if err := h.DB.Ping(); err != nil {
			dbStatus = "down: " + err.Error()
		} else {
			dbStatus = "up"
		}
	}

	redisStatus := "not configured"
	if h.Rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "down: " + err.Error()
		} else {
			redisStatus = "up"
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"db":     dbStatus,
		"redis":  redisStatus,
		"time":   time.Now().UTC(),
	})
}
