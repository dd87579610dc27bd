package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"slidegen/internal/api"
	"slidegen/internal/config"
	"slidegen/internal/ingest"
	"slidegen/internal/registry"
	"slidegen/internal/render"
	"slidegen/internal/service"
	"slidegen/internal/storage"
)

func main() {
	log.Println("Starting slidegen server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Storage Directories ---
	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		log.Fatalf("FATAL: Could not create upload directory: %v", err)
	}
	artifactStore, err := storage.NewLocalStore(cfg.Storage.PreviewDir, cfg.Storage.ImageDir)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize artifact store: %v", err)
	}

	// --- Initialize Registry & Ingestor ---
	uploadRegistry := registry.New(cfg.Storage.UploadDir)
	ingestor := ingest.New()

	// --- Initialize Renderers ---
	composer := render.NewComposer(render.Slide, cfg.Assets.Background)
	previewRenderer, err := render.NewPreviewRenderer(render.Slide, cfg.Assets.Background, cfg.Assets.Font)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize preview renderer: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	uploadService := service.NewUploadService(ingestor, uploadRegistry, cfg.Storage.UploadDir)
	previewService := service.NewPreviewService(uploadRegistry, composer, previewRenderer, artifactStore)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.CORS.AllowedOrigins, uploadService, previewService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
