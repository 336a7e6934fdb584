package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
	"github.com/docqa-labs/docqa-backend/internal/metricsink/domain"
)

type metricsReq struct {
	RunID           string  `json:"run_id"`
	AgentName       string  `json:"agent_name"`
	TokensConsumed  int     `json:"tokens_consumed"`
	TokensGenerated int     `json:"tokens_generated"`
	ResponseTimeMs  float64 `json:"response_time_ms"`
	ConfidenceScore float64 `json:"confidence_score"`
	Status          string  `json:"status"`
}

// Repository is the storage surface the handler needs.
type Repository interface {
	Append(ctx context.Context, rec *domain.Record) error
	ListByRun(ctx context.Context, runID string) ([]*domain.Record, error)
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ingest accepts one record per call. Absent numeric fields default to zero,
// absent status to "unknown"; the timestamp is assigned at write time.
func (h *Handler) ingest(c *gin.Context) {
	var req metricsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "malformed body"})
		return
	}

	if strings.TrimSpace(req.RunID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "run_id is required"})
		return
	}

	status := req.Status
	if status == "" {
		status = domain.StatusUnknown
	}

	rec := &domain.Record{
		RunID:           strings.TrimSpace(req.RunID),
		AgentName:       req.AgentName,
		TokensConsumed:  req.TokensConsumed,
		TokensGenerated: req.TokensGenerated,
		ResponseTimeMs:  req.ResponseTimeMs,
		ConfidenceScore: req.ConfidenceScore,
		Status:          status,
	}
	if err := h.repo.Append(c.Request.Context(), rec); err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "run_id": rec.RunID})
}

func (h *Handler) listByRun(c *gin.Context) {
	records, err := h.repo.ListByRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"run_id": c.Param("run_id"), "records": records})
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/metrics", h.ingest)
	r.GET("/metrics/:run_id", h.listByRun)
}
