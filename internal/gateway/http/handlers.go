package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) createDocument(c *gin.Context) {
	h.forwardDoc(c, http.MethodPost, "/documents")
}

func (h *Handler) getDocument(c *gin.Context) {
	h.forwardDoc(c, http.MethodGet, "/documents/"+url.PathEscape(c.Param("id")))
}

func (h *Handler) listDocuments(c *gin.Context) {
	path := "/documents"
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	h.forwardDoc(c, http.MethodGet, path)
}

func (h *Handler) updateDocument(c *gin.Context) {
	h.forwardDoc(c, http.MethodPut, "/documents/"+url.PathEscape(c.Param("id")))
}

func (h *Handler) deleteDocument(c *gin.Context) {
	path := "/documents/" + url.PathEscape(c.Param("id"))
	if raw := c.Request.URL.RawQuery; raw != "" {
		path += "?" + raw
	}
	h.forwardDoc(c, http.MethodDelete, path)
}

func (h *Handler) uploadDocuments(c *gin.Context) {
	// Multipart uploads keep their original content type.
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.client.docBaseURL+"/pdf/upload", c.Request.Body)
	if err != nil {
		transportError(c, err)
		return
	}
	req.Header.Set("Content-Type", c.GetHeader("Content-Type"))
	if h.client.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.client.serviceToken)
	}

	resp, err := h.client.defaultClient.Do(req)
	if err != nil {
		transportError(c, err)
		return
	}

	proxyResponse(c, resp)
}

// indexDocument triggers RAG indexing for one document id.
func (h *Handler) indexDocument(c *gin.Context) {
	payload, _ := json.Marshal(gin.H{"document_ids": []string{c.Param("id")}})

	resp, err := h.client.RAGIndex(c.Request.Context(), bytes.NewReader(payload))
	if err != nil {
		transportError(c, err)
		return
	}

	proxyResponse(c, resp)
}

func (h *Handler) query(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read body"})
		return
	}

	resp, err := h.client.RAGQuery(c.Request.Context(), bytes.NewReader(body))
	if err != nil {
		transportError(c, err)
		return
	}

	proxyResponse(c, resp)
}

func (h *Handler) forwardDoc(c *gin.Context, method, path string) {
	var body io.Reader
	if method == http.MethodPost || method == http.MethodPut {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cannot read body"})
			return
		}
		body = bytes.NewReader(raw)
	}

	resp, err := h.client.DocRequest(c.Request.Context(), method, path, body)
	if err != nil {
		transportError(c, err)
		return
	}

	proxyResponse(c, resp)
}
