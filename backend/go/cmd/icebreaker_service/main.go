package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"IceBreaker/backend/go/internal/cache"
	"IceBreaker/backend/go/internal/chains"
	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/icebreaker_service/api"
	"IceBreaker/backend/go/internal/icebreaker_service/service"
	"IceBreaker/backend/go/internal/llm"
	"IceBreaker/backend/go/internal/locator"
	"IceBreaker/backend/go/internal/models"
	"IceBreaker/backend/go/internal/scraper"
	pkghttp "IceBreaker/backend/go/pkg/http"
	"IceBreaker/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultConfigPath = "backend/go/internal/config/config.yaml"

func main() {
	configPath := os.Getenv("ICEBREAKER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	serviceLogger := logger.New("IceBreakerService", "", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profileCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to create profile cache")
	}

	// One breaker-protected client per upstream so that one failing API does not trip the others.
	cb := cfg.Middleware.CircuitBreaker
	searchHTTP := pkghttp.NewClient("search", cb, locator.SearchTimeout(cfg.Search), serviceLogger)
	scrapinHTTP := pkghttp.NewClient("scrapin", cb, 0, serviceLogger)
	twitterHTTP := pkghttp.NewClient("twitter", cb, 0, serviceLogger)
	llmHTTP := pkghttp.NewClient("llm", cb, 0, serviceLogger)

	searcher, err := locator.NewSearcher(ctx, cfg.Search, searchHTTP)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to create search client")
	}
	model, err := llm.NewClient(ctx, cfg.LLM, llmHTTP.HTTPClient())
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to create LLM client")
	}

	summary, err := chains.NewSummaryChain(model)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to build summary chain")
	}
	interests, err := chains.NewInterestsChain(model)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to build interests chain")
	}
	iceBreakers, err := chains.NewIceBreakerChain(model)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to build ice breaker chain")
	}

	iceBreakerService := service.NewIceBreakerService(service.Deps{
		LinkedInLocator: locator.New(searcher, locator.LinkedIn, serviceLogger),
		TwitterLocator:  locator.New(searcher, locator.Twitter, serviceLogger),
		Profiles:        scraper.NewLinkedInScraper(cfg.Scrapers.LinkedIn, scrapinHTTP, profileCache, serviceLogger),
		Posts:           scraper.NewPostScraper(cfg.Scrapers.Twitter, twitterHTTP),
		Summary:         summary,
		Interests:       interests,
		IceBreakers:     iceBreakers,
	}, service.Options{
		MockProfile: cfg.Scrapers.LinkedIn.Mock,
		MaxPosts:    cfg.Scrapers.Twitter.MaxPosts,
	}, serviceLogger)

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := api.SetupRouter(api.NewAPI(iceBreakerService, serviceLogger))
	srv, err := pkghttp.NewServer(cfg, router, pkghttp.WithLogger(serviceLogger))
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("Failed to create HTTP server")
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("HTTP server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serviceLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Server forced to shutdown")
	}

	if closer, ok := model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing LLM client")
		}
	}
	if profileCache != nil {
		if err := profileCache.Close(); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error closing profile cache")
		}
	}
	serviceLogger.Info("Server gracefully stopped")
}
