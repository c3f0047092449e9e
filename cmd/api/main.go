package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/tubeinsight/api/internal/application"
	appanalyses "github.com/tubeinsight/api/internal/application/analyses"
	"github.com/tubeinsight/api/internal/config"
	domai "github.com/tubeinsight/api/internal/domain/ai"
	"github.com/tubeinsight/api/internal/domain/analysis"
	"github.com/tubeinsight/api/internal/domain/faults"
	"github.com/tubeinsight/api/internal/domain/transcript"
	"github.com/tubeinsight/api/internal/domain/video"
	"github.com/tubeinsight/api/internal/infra/ai/gemini"
	aiopenai "github.com/tubeinsight/api/internal/infra/ai/openai"
	mysqldb "github.com/tubeinsight/api/internal/infra/db/mysql"
	postgresdb "github.com/tubeinsight/api/internal/infra/db/postgres"
	sqlitedb "github.com/tubeinsight/api/internal/infra/db/sqlite"
	"github.com/tubeinsight/api/internal/infra/httpserver"
	"github.com/tubeinsight/api/internal/infra/storage"
	transcripthttp "github.com/tubeinsight/api/internal/infra/transcript/httpapi"
	transcriptscript "github.com/tubeinsight/api/internal/infra/transcript/script"
	"github.com/tubeinsight/api/internal/infra/youtube"
	"github.com/tubeinsight/api/internal/middleware"
)

func init() {
	// Load .env file if present (silently ignore if missing)
	godotenv.Load()
}

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	db, repo, faultRepo, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	summarizer, err := buildSummarizer(ctx, cfg)
	if err != nil {
		log.Fatalf("ai init error: %v", err)
	}

	svc := &appanalyses.Service{
		Repo:               repo,
		Transcripts:        buildTranscripts(cfg),
		Summarizer:         summarizer,
		Metadata:           buildMetadata(ctx, cfg),
		Faults:             faultRepo,
		Archive:            buildArchive(ctx, cfg),
		Clock:              application.SystemClock{},
		MaxTranscriptChars: cfg.AI.MaxTranscriptChars,
		ModelTimeout:       cfg.AITimeout(),
	}

	health := middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	})

	mux := chi.NewRouter()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst))
	mux.Use(middleware.LoggingMiddleware)
	mux.Mount("/", httpserver.NewRouter(svc, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout() + cfg.TranscriptTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
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

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, analysis.Repository, faults.Repository, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, mysqldb.NewAnalysisRepository(db), mysqldb.NewFaultRepository(db), nil
	case "postgres":
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db, postgresdb.NewAnalysisRepository(db), postgresdb.NewFaultRepository(db), nil
	case "sqlite":
		db, err := sqlitedb.Connect(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, sqlitedb.NewAnalysisRepository(db), sqlitedb.NewFaultRepository(db), nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}

func buildSummarizer(ctx context.Context, cfg *config.Config) (domai.Summarizer, error) {
	switch cfg.AI.Provider {
	case "openai":
		return aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens), nil
	case "gemini":
		return gemini.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.AI.Provider)
	}
}

func buildTranscripts(cfg *config.Config) transcript.Provider {
	if cfg.Transcript.Mode == "http" {
		return transcripthttp.NewClient(cfg.Transcript.APIURL, cfg.TranscriptTimeout())
	}
	return transcriptscript.NewRunner(cfg.Transcript.PythonBin, cfg.Transcript.ScriptPath, cfg.TranscriptTimeout())
}

func buildMetadata(ctx context.Context, cfg *config.Config) video.MetadataProvider {
	if cfg.YouTube.APIKey == "" {
		log.Println("youtube api key not set, metadata enrichment disabled")
		return nil
	}
	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTubeTimeout())
	if err != nil {
		log.Printf("youtube client init failed, metadata enrichment disabled: %v", err)
		return nil
	}
	return client
}

func buildArchive(ctx context.Context, cfg *config.Config) appanalyses.Archive {
	if !cfg.Minio.Enabled {
		return nil
	}
	store, err := storage.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Printf("minio init failed, raw-output archive disabled: %v", err)
		return nil
	}
	return store
}
