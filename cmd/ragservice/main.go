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
	"github.com/docqa-labs/docqa-backend/internal/rag/chunker"
	"github.com/docqa-labs/docqa-backend/internal/rag/docclient"
	"github.com/docqa-labs/docqa-backend/internal/rag/embedding"
	raghttp "github.com/docqa-labs/docqa-backend/internal/rag/http"
	"github.com/docqa-labs/docqa-backend/internal/rag/llm"
	"github.com/docqa-labs/docqa-backend/internal/rag/metricsclient"
	"github.com/docqa-labs/docqa-backend/internal/rag/service"
	"github.com/docqa-labs/docqa-backend/internal/rag/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateRAG(); err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	dsn := cfg.Database.VectorDSN
	if dsn == "" {
		dsn = bootstrap.DSN(&cfg.Database)
	}
	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: dsn})
	if err != nil {
		log.Fatalf("vector db: %v", err)
	}
	defer pool.Close()

	vectors := vectorstore.NewStore(pool)
	if err := vectors.EnsureSchema(ctx, cfg.OpenAI.EmbeddingDimension); err != nil {
		log.Fatalf("vector schema: %v", err)
	}

	embedder, err := embedding.NewOpenAIEmbedder(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimension)
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	generator, err := llm.NewOpenAIGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.LLMModel)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}

	orch := service.NewOrchestrator(
		docclient.New(cfg.Services.DocServiceURL, cfg.Auth.ServiceToken, cfg.RAG.IndexTimeout),
		chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		embedder,
		vectors,
		generator,
		metricsclient.New(cfg.Services.MetricsURL, cfg.Auth.ServiceToken),
		cfg.RAG.TopK,
	)

	r := gin.Default()
	httpapi.NewHealthHandler("ragservice", cfg.App.Version, pool, nil).RegisterRoutes(r)

	api := r.Group("/")
	api.Use(middleware.RequestIDMiddleware())
	if !cfg.Auth.Disabled {
		api.Use(authmw.ServiceTokenMiddleware(cfg.Auth.ServiceToken))
	}
	raghttp.NewHandler(orch).Register(api)

	log.Printf("ragservice listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
