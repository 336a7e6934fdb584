package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa-backend/config"
	httpapi "github.com/docqa-labs/docqa-backend/internal/api/http"
	"github.com/docqa-labs/docqa-backend/internal/api/http/middleware"
	authmw "github.com/docqa-labs/docqa-backend/internal/auth/middleware"
	"github.com/docqa-labs/docqa-backend/internal/bootstrap"
	"github.com/docqa-labs/docqa-backend/internal/documents/blob"
	dochttp "github.com/docqa-labs/docqa-backend/internal/documents/http"
	"github.com/docqa-labs/docqa-backend/internal/documents/repository"
	"github.com/docqa-labs/docqa-backend/internal/documents/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := bootstrap.OpenSQL(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var blobs blob.Store
	if cfg.Blob.Bucket != "" {
		s3Client, err := bootstrap.OpenS3(context.Background(), &cfg.Blob)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		blobs = blob.NewS3Store(s3Client, cfg.Blob.Bucket)
	} else {
		blobs, err = blob.NewLocalStore(cfg.Blob.UploadDir)
		if err != nil {
			log.Fatalf("blob store: %v", err)
		}
		log.Printf("no S3 bucket configured, storing blobs under %s", cfg.Blob.UploadDir)
	}

	repo := repository.NewDocumentRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("schema: %v", err)
	}
	svc := service.NewDocumentService(repo, blobs)

	r := gin.Default()
	httpapi.NewHealthHandler("docservice", cfg.App.Version, nil, nil).RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RequestIDMiddleware())
	if !cfg.Auth.Disabled {
		api.Use(authmw.ServiceTokenMiddleware(cfg.Auth.ServiceToken))
	}
	dochttp.NewHandler(svc).Register(api)

	log.Printf("docservice listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
