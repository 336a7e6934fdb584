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
	sinkhttp "github.com/docqa-labs/docqa-backend/internal/metricsink/http"
	"github.com/docqa-labs/docqa-backend/internal/metricsink/repository"
	"github.com/docqa-labs/docqa-backend/internal/metricsink/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	rdb, err := bootstrap.OpenRedis(context.Background(), &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	repo := repository.NewMetricsRepository(rdb)
	sweeper.New(repo).Start()

	r := gin.Default()
	httpapi.NewHealthHandler("metricsink", cfg.App.Version, nil, rdb).RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RequestIDMiddleware())
	if !cfg.Auth.Disabled {
		api.Use(authmw.ServiceTokenMiddleware(cfg.Auth.ServiceToken))
	}
	sinkhttp.NewHandler(repo).Register(api)

	log.Printf("metricsink listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
