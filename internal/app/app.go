package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/midwicket/crickstack/db"
	"github.com/midwicket/crickstack/external/espn"
	"github.com/midwicket/crickstack/internal/bronze"
	"github.com/midwicket/crickstack/internal/config"
	"github.com/midwicket/crickstack/internal/enrichment"
	"github.com/midwicket/crickstack/internal/infrastructure/repository/sqlite"
	"github.com/midwicket/crickstack/internal/ingestion"
	"github.com/midwicket/crickstack/internal/interfaces/httpapi"
	"github.com/midwicket/crickstack/internal/platform/cache"
	"github.com/midwicket/crickstack/internal/platform/logging"
	"github.com/midwicket/crickstack/internal/platform/resilience"
	"github.com/midwicket/crickstack/internal/usecase"
)

// OpenDatabase opens the analytical SQLite database and applies pending
// migrations.
func OpenDatabase(cfg config.Config) (*sqlx.DB, error) {
	handle, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(handle); err != nil {
		handle.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return handle, nil
}

func NewHTTPServer(cfg config.Config, handle *sqlx.DB, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	battingSvc := usecase.NewBattingService(sqlite.NewBattingRepository(handle), cacheStore)
	bowlingSvc := usecase.NewBowlingService(sqlite.NewBowlingRepository(handle), cacheStore)
	matchSvc := usecase.NewMatchService(sqlite.NewMatchRepository(handle))
	playerSvc := usecase.NewPlayerService(sqlite.NewPlayerRepository(handle))
	teamSvc := usecase.NewTeamService(sqlite.NewTeamRepository(handle))

	handler := httpapi.NewHandler(battingSvc, bowlingSvc, matchSvc, playerSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// IngestionSet bundles the components an ingestion run needs.
type IngestionSet struct {
	Downloader   *ingestion.Downloader
	Loader       *ingestion.Loader
	PeopleLoader *ingestion.PeopleLoader
}

func NewIngestionSet(cfg config.Config, handle *sqlx.DB, logger *logging.Logger) IngestionSet {
	if logger == nil {
		logger = logging.Default()
	}

	store := bronze.NewStore(handle, logger)
	return IngestionSet{
		Downloader: ingestion.NewDownloader(ingestion.DownloaderConfig{
			HTTPClient: &http.Client{Timeout: cfg.DownloadTimeout},
			BaseURL:    cfg.CricsheetBaseURL,
			PeopleURL:  cfg.CricsheetPeople,
			RawDir:     cfg.RawDir,
			Logger:     logger,
		}),
		Loader: ingestion.NewLoader(ingestion.LoaderConfig{
			Store:        store,
			BatchSize:    cfg.IngestBatchSize,
			ParseWorkers: cfg.IngestParseWorker,
			Logger:       logger,
		}),
		PeopleLoader: ingestion.NewPeopleLoader(handle, logger),
	}
}

// NewEnrichmentService wires the ESPN scraper, series resolver, and bronze
// store. The returned client owns a headless browser and must be closed
// after the run.
func NewEnrichmentService(ctx context.Context, cfg config.Config, handle *sqlx.DB, logger *logging.Logger) (*enrichment.Service, *espn.Client) {
	if logger == nil {
		logger = logging.Default()
	}

	client := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxRq,
		},
	})

	resolver := enrichment.NewResolver(ctx, sqlite.NewSeriesRepository(handle), cfg.ESPNProbeDelay, logger)
	service := enrichment.NewService(enrichment.ServiceConfig{
		DB:       handle,
		Store:    bronze.NewStore(handle, logger),
		Resolver: resolver,
		Scraper:  client,
		Delay:    cfg.ESPNProbeDelay,
		Logger:   logger,
	})

	return service, client
}
