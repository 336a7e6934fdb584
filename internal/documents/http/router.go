package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/pdf/upload", h.upload)

	r.POST("/documents", h.create)
	r.GET("/documents", h.list)
	r.GET("/documents/:id", h.get)
	r.PUT("/documents/:id", h.update)
	r.DELETE("/documents/:id", h.delete)
}
