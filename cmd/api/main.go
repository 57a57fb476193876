package main

import (
	"context"
	"log"

	"github.com/davidarico/subtitle-portal/config"
	"github.com/davidarico/subtitle-portal/internal/alignment"
	"github.com/davidarico/subtitle-portal/internal/bootstrap"
	"github.com/davidarico/subtitle-portal/internal/projects/repository"
	"github.com/davidarico/subtitle-portal/internal/projects/service"
	"github.com/davidarico/subtitle-portal/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	repo := repository.NewRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	media, err := storage.NewMediaStore(ctx, storage.Options{
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	jobs := alignment.NewClient(alignment.Options{
		BaseURL:           cfg.Alignment.BaseURL,
		APIKey:            cfg.Alignment.APIKey,
		Timeout:           cfg.Alignment.Timeout,
		TranscriptTimeout: cfg.Alignment.TranscriptTimeout,
	})

	svc := service.New(repo, jobs, media, service.Options{
		RefreshWorkers: cfg.Refresh.Workers,
		RefreshRPS:     cfg.Refresh.RPS,
	})

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "subtitle-portal",
		Version:     cfg.App.Version,
		DB:          pool,
		Projects:    svc,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
