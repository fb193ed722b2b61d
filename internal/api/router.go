// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tamzrod/status-aggregator/internal/logger"
	"github.com/tamzrod/status-aggregator/internal/status"
)

// SnapshotBuilder is the single entry point of the engine.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context) status.Snapshot
}

// Handler serves snapshots over HTTP. One fresh snapshot per request.
type Handler struct {
	builder SnapshotBuilder
	log     logger.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(b SnapshotBuilder, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{builder: b, log: log}
}

// NewRouter wires routes onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLog(h.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "status-aggregator",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/status", h.Snapshot)
		v1.GET("/status/:id", h.Provider)
	}

	return r
}

// Snapshot returns the whole snapshot.
// The request context bounds the cycle: a client disconnect cancels in-flight fetches.
func (h *Handler) Snapshot(c *gin.Context) {
	snap := h.builder.BuildSnapshot(c.Request.Context())
	success(c, snap)
}

// Provider returns one provider's result.
func (h *Handler) Provider(c *gin.Context) {
	id := c.Param("id")

	snap := h.builder.BuildSnapshot(c.Request.Context())
	res, ok := snap.Providers[id]
	if !ok {
		failure(c, http.StatusNotFound, "unknown provider: "+id)
		return
	}
	success(c, res)
}

func requestLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof(c.Request.Context(), "%s %s -> %d (%s)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
		)
	}
}
