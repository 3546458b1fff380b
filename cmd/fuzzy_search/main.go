package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/api"
	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/engine"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/logger"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a TOML or YAML settings file")
		logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the settings file")
		port       = flag.Int("port", 0, "Port to run the server on; overrides the settings file")
		dataDir    = flag.String("data-dir", "", "Directory to store collection snapshots; overrides the settings file")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Go Fuzzy Search - in-memory fuzzy, substring and prefix search over HTTP\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --config fuzzy_search.toml   # Load settings and collections from a file\n", os.Args[0])
		fmt.Printf("  %s --port 9000 --log-level debug\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Go Fuzzy Search v1.0.0\n")
		return
	}

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if *port != 0 {
		settings.Server.Port = *port
	}
	if *dataDir != "" {
		settings.DataDir = *dataDir
	}

	if err := logger.SetLevel(settings.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("main")

	log.Info("Using data directory", "path", settings.DataDir, "workers", settings.MaxWorkers)
	searchEngine := engine.NewEngine(settings.DataDir, settings.MaxWorkers, metrics.New())

	for _, collection := range settings.Collections {
		err := searchEngine.CreateCollection(collection)
		switch {
		case err == nil:
			log.Info("Created configured collection", "collection", collection.Name)
		case errors.Is(err, internalErrors.ErrCollectionAlreadyExists):
			log.Debug("Configured collection restored from disk", "collection", collection.Name)
		default:
			log.Fatal("Failed to create configured collection", "collection", collection.Name, "err", err)
		}
	}

	if settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(settings.Server.RequestSizeLimit))
	api.SetupRoutes(router, searchEngine, searchEngine.Metrics())

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(settings.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting server", "port", settings.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "err", err)
	}
	searchEngine.Close()
	log.Info("Snapshots saved, bye")
}
