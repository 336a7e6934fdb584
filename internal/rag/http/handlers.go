package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa-backend/internal/httpx"
	"github.com/docqa-labs/docqa-backend/internal/rag/service"
)

type indexReq struct {
	DocumentIDs []string `json:"document_ids"`
}

type queryReq struct {
	DocumentIDs []string `json:"document_ids"`
	Question    string   `json:"question"`
}

type Handler struct {
	orch *service.Orchestrator
}

func NewHandler(orch *service.Orchestrator) *Handler {
	return &Handler{orch: orch}
}

func (h *Handler) index(c *gin.Context) {
	var req indexReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	results, err := h.orch.Index(c.Request.Context(), req.DocumentIDs)
	if err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) query(c *gin.Context) {
	var req queryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	result, err := h.orch.Query(c.Request.Context(), req.DocumentIDs, req.Question)
	if err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/rag/index", h.index)
	r.POST("/rag/query", h.query)
}
