package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llmployable/internal/ai"
	"llmployable/internal/cache"
	"llmployable/internal/observability"
	"llmployable/internal/portfolio"
)

// Start starts the HTTP server with all configured components
func (s *Server) Start() error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	if err := s.initializeComponents(om); err != nil {
		return err
	}
	defer s.shutdownComponents()

	httpServer := s.setupHTTPServer(om)

	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// initializeComponents wires the analysis pipeline: taxonomy-backed
// extractor behind the cache, the portfolio source, and the AI services
func (s *Server) initializeComponents(om *observability.ObservabilityManager) error {
	taxonomy, err := NewTaxonomyReloader(s.AppConfig.Taxonomy, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}
	if err := taxonomy.Start(); err != nil {
		return fmt.Errorf("failed to start taxonomy watcher: %w", err)
	}
	s.taxonomy = taxonomy

	store, err := s.buildCacheStore()
	if err != nil {
		return err
	}
	s.cacheStore = store
	s.extractor = cache.NewCachedExtractor(taxonomy, store, s.AppConfig.Cache.TTL, s.Logger, om)

	s.source = portfolio.NewGitHubClient(&s.AppConfig.GitHub, s.Logger)

	resumeConfig := s.AppConfig.GetResumeConfig()
	resumeService, err := ai.NewService(&resumeConfig, "Resume", s.Logger, om)
	if err != nil {
		return fmt.Errorf("failed to create resume service: %w", err)
	}
	s.resumeService = resumeService

	interviewConfig := s.AppConfig.GetInterviewConfig()
	interviewService, err := ai.NewService(&interviewConfig, "Interview", s.Logger, om)
	if err != nil {
		return fmt.Errorf("failed to create interview service: %w", err)
	}
	s.interviewService = interviewService

	return nil
}

// buildCacheStore selects the cache backend: Redis when an address is
// configured, the in-process store otherwise
func (s *Server) buildCacheStore() (cache.Store, error) {
	if !s.AppConfig.Cache.Enabled || s.AppConfig.Cache.Redis.Addr == "" {
		return cache.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
		Addr:      s.AppConfig.Cache.Redis.Addr,
		Password:  s.AppConfig.Cache.Redis.Password,
		DB:        s.AppConfig.Cache.Redis.DB,
		KeyPrefix: s.AppConfig.Cache.KeyPrefix,
	})
	if err != nil {
		// A broken cache degrades to in-process caching, never blocks startup
		s.Logger.LogError(err, "Redis unavailable, falling back to in-memory cache",
			"addr", s.AppConfig.Cache.Redis.Addr)
		return cache.NewMemoryStore(), nil
	}

	s.Logger.Info("Connected to Redis cache", "addr", s.AppConfig.Cache.Redis.Addr)
	return store, nil
}

// shutdownComponents releases the analysis pipeline resources
func (s *Server) shutdownComponents() {
	if s.taxonomy != nil {
		if err := s.taxonomy.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop taxonomy watcher")
		}
	}
	if s.resumeService != nil {
		if err := s.resumeService.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close resume service")
		}
	}
	if s.interviewService != nil {
		if err := s.interviewService.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close interview service")
		}
	}
	if s.cacheStore != nil {
		if err := s.cacheStore.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close cache store")
		}
	}
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	mux := s.setupRoutes(om)
	handler := om.HTTPMiddleware()(mux)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health     - Health check")
	fmt.Println("  GET  /stats      - Server statistics")
	fmt.Println("  POST /analyze    - Analyze job description (requires API key)")
	fmt.Println("  POST /match      - Rank repositories against a job (requires API key)")
	fmt.Println("  POST /generate   - Generate tailored resume content (requires API key)")
	fmt.Println("  POST /interview  - Generate interview preparation (requires API key)")

	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}

	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
	}

	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Println("Rate limiting: DISABLED")
	}

	if s.AppConfig.Taxonomy.AutoReload.Enabled && s.AppConfig.Taxonomy.File != "" {
		fmt.Printf("Taxonomy auto-reload: ENABLED (%s)\n", s.AppConfig.Taxonomy.File)
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// With certificate content the certificates are already loaded
			// into the TLS config
			if s.TLSConfig.CertContent != "" || s.TLSConfig.KeyContent != "" {
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServeTLS(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
			}
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
