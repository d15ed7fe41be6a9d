package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rizaldy/datachat/internal/application"
	appds "github.com/rizaldy/datachat/internal/application/datasets"
	appq "github.com/rizaldy/datachat/internal/application/queries"
	"github.com/rizaldy/datachat/internal/config"
	domds "github.com/rizaldy/datachat/internal/domain/datasets"
	aiclient "github.com/rizaldy/datachat/internal/infra/ai/openai"
	yaegirunner "github.com/rizaldy/datachat/internal/infra/executor/yaegi"
	"github.com/rizaldy/datachat/internal/infra/httpserver"
	"github.com/rizaldy/datachat/internal/infra/memory"
	"github.com/rizaldy/datachat/internal/infra/source"
	"github.com/rizaldy/datachat/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config; tanpa file pun jalan dengan default lokal (Ollama)
	cfg, err := config.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("config load error: %v", err)
		}
		log.Printf("no config file at %s, using defaults", path)
		cfg = config.Default()
	}

	ctx := context.Background()

	// init sources untuk auto-discovery
	var sources []domds.Source
	if cfg.Datasets.Dir != "" {
		sources = append(sources, source.NewDirSource(cfg.Datasets.Dir, cfg.MaxDatasetBytes()))
	}
	if cfg.Minio.Enabled {
		bucket, err := source.NewBucketSource(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.Prefix,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.MaxDatasetBytes(),
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		sources = append(sources, bucket)
	}

	// init services
	datasetsSvc := &appds.Service{
		Registry: memory.NewDatasetRegistry(),
		Sources:  sources,
		Clock:    application.SystemClock{},
		MaxBytes: cfg.MaxDatasetBytes(),
	}
	queriesSvc := &appq.Service{
		Registry: datasetsSvc.Registry,
		Gen:      aiclient.NewClient(cfg.Model.BaseURL, cfg.Model.APIKey, cfg.Model.Name, cfg.Model.MaxTokens),
		Runner:   yaegirunner.NewRunner(cfg.ExecTimeout()),
		Log:      memory.NewQueryLog(0),
		Clock:    application.SystemClock{},
	}

	// discovery awal; kalau gagal jangan matikan server
	if len(sources) > 0 {
		if n, err := datasetsSvc.Sync(ctx); err != nil {
			log.Printf("initial dataset sync error: %v", err)
		} else {
			log.Printf("initial dataset sync: %d dataset(s) registered", n)
		}
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"model": &middleware.ModelHealthChecker{BaseURL: cfg.Model.BaseURL},
	}))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(datasetsSvc, queriesSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// ask requests hold a model round trip plus the interpreter run
		WriteTimeout: cfg.ModelTimeout() + cfg.ExecTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (model=%s at %s)", addr, cfg.Model.Name, cfg.Model.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
