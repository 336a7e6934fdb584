package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa-backend/internal/documents/domain"
	"github.com/docqa-labs/docqa-backend/internal/documents/service"
	"github.com/docqa-labs/docqa-backend/internal/httpx"
)

type Handler struct {
	svc *service.DocumentService
}

func NewHandler(svc *service.DocumentService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid multipart body"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no files provided"})
		return
	}

	uploaded := make([]*domain.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read " + fh.Filename})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read " + fh.Filename})
			return
		}

		doc, err := h.svc.Upload(c.Request.Context(), fh.Filename, data)
		if err != nil {
			if strings.Contains(err.Error(), "not a PDF") {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
				return
			}
			httpx.AbortError(c, err)
			return
		}
		uploaded = append(uploaded, doc)
	}

	c.JSON(http.StatusOK, uploaded)
}

func (h *Handler) create(c *gin.Context) {
	var req createDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Filename) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	doc := &domain.Document{
		DocID:           strings.TrimSpace(req.DocID),
		Filename:        strings.TrimSpace(req.Filename),
		StorageLocation: req.Location,
		Tags:            req.Tags,
	}
	if err := h.svc.Create(c.Request.Context(), doc); err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "doc_id": doc.DocID})
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			httpx.AbortError(c, httpx.NotFound("document not found"))
			return
		}
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "page and limit must be positive"})
		return
	}

	docs, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *Handler) update(c *gin.Context) {
	var req updateDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.DocumentUpdate{
		Tags:            req.Tags,
		StorageLocation: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoUpdatableField):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no updatable fields provided"})
		case errors.Is(err, domain.ErrDocumentNotFound):
			httpx.AbortError(c, httpx.NotFound("document not found"))
		default:
			httpx.AbortError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "doc_id": c.Param("id")})
}

func (h *Handler) delete(c *gin.Context) {
	purge := c.DefaultQuery("purge_blob", "false") == "true"

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), purge)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			httpx.AbortError(c, httpx.NotFound("document not found"))
			return
		}
		httpx.AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "doc_id": c.Param("id")})
}
