// ABOUTME: HTTP handlers for sync, quality, export, and dictionary
// ABOUTME: Maps engine results and error classes onto response statuses
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recrutech/boondsync/boond"
	"github.com/recrutech/boondsync/dictionary"
	"github.com/recrutech/boondsync/export"
	"github.com/recrutech/boondsync/models"
	"github.com/recrutech/boondsync/quality"
	"github.com/recrutech/boondsync/syncer"
)

// SyncRunner runs one production-to-sandbox copy.
type SyncRunner interface {
	Run(ctx context.Context) (*syncer.Result, error)
}

// Analyzer scans one environment for quality defects.
type Analyzer interface {
	Analyze(ctx context.Context, env models.Environment) (*quality.Analysis, error)
}

// DictionaryGetter serves cached reference data.
type DictionaryGetter interface {
	Get(ctx context.Context, env models.Environment, force bool) (*dictionary.Snapshot, error)
}

// handleSync triggers one synchronous run. A partial result is still a
// result: only a nil result is a hard failure.
func (s *Server) handleSync(c *gin.Context) {
	result, err := s.deps.Sync.Run(c.Request.Context())
	switch {
	case err == nil:
		operations.WithLabelValues("sync", "ok").Inc()
		c.JSON(http.StatusOK, result)
	case result != nil:
		operations.WithLabelValues("sync", "partial").Inc()
		zap.S().Warnw("sync run ended early", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "result": result})
	default:
		operations.WithLabelValues("sync", "error").Inc()
		zap.S().Errorw("sync run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleQuality(c *gin.Context) {
	env, err := models.ParseEnvironment(c.Query("env"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := s.deps.Analyzer.Analyze(c.Request.Context(), env)
	if err != nil {
		operations.WithLabelValues("quality", "error").Inc()
		zap.S().Errorw("quality analysis failed", "env", env, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	operations.WithLabelValues("quality", "ok").Inc()
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleExport(c *gin.Context) {
	env, err := models.ParseEnvironment(c.Query("env"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clean := c.Query("clean") == "true"

	types := models.AllEntityTypes()
	entityParam := c.Query("entity")
	if entityParam != "" {
		t, err := models.ParseEntityType(entityParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		types = []models.EntityType{t}
	}

	client, ok := s.deps.Clients[env]
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("no client configured for %s", env)})
		return
	}

	snapshot := make(map[models.EntityType][]models.Entity, len(types))
	for _, t := range types {
		entities, err := client.List(c.Request.Context(), t)
		if err != nil {
			operations.WithLabelValues("export", "error").Inc()
			zap.S().Errorw("export listing failed", "env", env, "type", t, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		snapshot[t] = entities
	}

	var buf bytes.Buffer
	if err := export.Export(&buf, snapshot, format, clean); err != nil {
		operations.WithLabelValues("export", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	operations.WithLabelValues("export", "ok").Inc()

	filename := export.Filename(entityParam, env, format, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	contentType := "application/json"
	if format == export.FormatCSV {
		contentType = "text/csv"
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) handleDictionary(c *gin.Context) {
	env, err := models.ParseEnvironment(c.Query("env"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	force := c.Query("refresh") == "true"

	snap, err := s.deps.Dictionary.Get(c.Request.Context(), env, force)
	if err != nil {
		operations.WithLabelValues("dictionary", "error").Inc()
		var transient *boond.TransientError
		if errors.As(err, &transient) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	operations.WithLabelValues("dictionary", "ok").Inc()
	c.JSON(http.StatusOK, snap)
}
