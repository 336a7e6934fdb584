package main

import (
	"log"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/docqa-labs/docqa-backend/config"
	"github.com/docqa-labs/docqa-backend/internal/bootstrap"
	gatewayhttp "github.com/docqa-labs/docqa-backend/internal/gateway/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateGateway(); err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	var firebaseClient *fbauth.Client
	if cfg.Auth.FirebaseCredentials != "" {
		firebaseClient, err = bootstrap.InitializeFirebase(cfg.Auth.FirebaseCredentials)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	}

	client := gatewayhttp.NewClient(
		cfg.Services.DocServiceURL,
		cfg.Services.RAGServiceURL,
		cfg.Auth.ServiceToken,
		cfg.RAG.IndexTimeout,
		cfg.RAG.QueryTimeout,
	)

	r := gatewayhttp.BuildRouter(gatewayhttp.RouterDeps{
		ServiceName:  "gateway",
		Version:      cfg.App.Version,
		APIKey:       cfg.Auth.APIKey,
		AuthDisabled: cfg.Auth.Disabled,
		Firebase:     firebaseClient,
		Client:       client,
	})

	log.Printf("gateway listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
