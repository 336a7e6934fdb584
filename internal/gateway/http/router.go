package http

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/docqa-labs/docqa-backend/internal/api/http"
	"github.com/docqa-labs/docqa-backend/internal/api/http/middleware"
	authmw "github.com/docqa-labs/docqa-backend/internal/auth/middleware"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	APIKey       string
	AuthDisabled bool
	Firebase     *fbauth.Client
	Client       *Client
}

// BuildRouter wires the public gateway routes. Auth picks Firebase ID tokens
// when a client is configured, the static API key otherwise.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, nil, nil)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RequestIDMiddleware())

	switch {
	case dep.AuthDisabled:
		// local development only
	case dep.Firebase != nil:
		api.Use(authmw.FirebaseAuthMiddleware(dep.Firebase))
	default:
		api.Use(authmw.APIKeyMiddleware(dep.APIKey))
	}

	h := NewHandler(dep.Client)
	api.POST("/documents", h.createDocument)
	api.GET("/documents", h.listDocuments)
	api.GET("/documents/:id", h.getDocument)
	api.PUT("/documents/:id", h.updateDocument)
	api.DELETE("/documents/:id", h.deleteDocument)
	api.POST("/documents/upload", h.uploadDocuments)
	api.POST("/documents/:id/index", h.indexDocument)
	api.POST("/query", h.query)

	return r
}
