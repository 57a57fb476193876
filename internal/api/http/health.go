package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	service string
	version string
	db      *pgxpool.Pool
}

func NewHealthHandler(service, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{service: service, version: version, db: db}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	db := "up"
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := h.db.Ping(pingCtx); err != nil {
		db = "down"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   h.service,
		"version":   h.version,
		"db":        db,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
