package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// Liveness handles GET /health. It only proves the process is serving.
func Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// readinessCheck pings one backing store. A nil ping marks the store as
// switched off by configuration.
type readinessCheck struct {
	name string
	ping func(ctx context.Context) error
}

// ReadinessHandler handles GET /health/ready.
type ReadinessHandler struct {
	checks []readinessCheck
}

// NewReadinessHandler checks the primary database and the revocation store.
// rdb is nil when revocation is disabled.
func NewReadinessHandler(db *mongo.Database, rdb *redis.Client) *ReadinessHandler {
	checks := []readinessCheck{{
		name: "mongodb",
		ping: func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
	}}

	revocations := readinessCheck{name: "redis"}
	if rdb != nil {
		revocations.ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return &ReadinessHandler{checks: append(checks, revocations)}
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.checks))}
	for _, chk := range h.checks {
		if chk.ping == nil {
			resp.Dependencies[chk.name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := chk.ping(ctx); err != nil {
			resp.Dependencies[chk.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[chk.name] = dependencyStatus{Status: "ok"}
	}

	if resp.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
