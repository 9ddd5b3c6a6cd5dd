// Package api implements the HTTP API serving persisted crawl runs.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/wikigraph/internal/logger"
	"github.com/jonesrussell/wikigraph/internal/storage"
)

// readHeaderTimeout bounds header reads on the HTTP server.
const readHeaderTimeout = 10 * time.Second

// RunStore is the storage surface the API needs.
type RunStore interface {
	ListRuns(ctx context.Context) ([]storage.Run, error)
	GetRun(ctx context.Context, id string) (*storage.Run, error)
	GetNodes(ctx context.Context, runID string) ([]storage.Node, error)
	GetEdges(ctx context.Context, runID string) ([]storage.EdgeRow, error)
}

// SetupRouter creates and configures the gin router with all routes.
func SetupRouter(log logger.Interface, store RunStore) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/runs", listRunsHandler(store))
		v1.GET("/runs/:id", getRunHandler(store))
		v1.GET("/runs/:id/nodes", getNodesHandler(store))
		v1.GET("/runs/:id/edges", getEdgesHandler(store))
	}

	return router
}

// NewServer wraps the router in an http.Server bound to addr.
func NewServer(addr string, log logger.Interface, store RunStore) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           SetupRouter(log, store),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func listRunsHandler(store RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		runs, err := store.ListRuns(c.Request.Context())
		if err != nil {
			respondInternalError(c, "failed to list runs")
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	}
}

func getRunHandler(store RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := store.GetRun(c.Request.Context(), c.Param("id"))
		if errors.Is(err, storage.ErrRunNotFound) {
			respondNotFound(c, "run")
			return
		}
		if err != nil {
			respondInternalError(c, "failed to get run")
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

func getNodesHandler(store RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !runExists(c, store) {
			return
		}
		nodes, err := store.GetNodes(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondInternalError(c, "failed to get nodes")
			return
		}
		c.JSON(http.StatusOK, gin.H{"nodes": nodes})
	}
}

func getEdgesHandler(store RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !runExists(c, store) {
			return
		}
		edges, err := store.GetEdges(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondInternalError(c, "failed to get edges")
			return
		}
		c.JSON(http.StatusOK, gin.H{"edges": edges})
	}
}

// runExists answers 404 and returns false when the run is missing.
func runExists(c *gin.Context, store RunStore) bool {
	_, err := store.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrRunNotFound) {
		respondNotFound(c, "run")
		return false
	}
	if err != nil {
		respondInternalError(c, "failed to get run")
		return false
	}
	return true
}

// loggingMiddleware logs each request with method, path, status and latency.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
