// README: Entry point; loads config, wires stores, scoring and AI services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"loadrec/internal/ai"
	"loadrec/internal/config"
	httptransport "loadrec/internal/http"
	"loadrec/internal/infra"
	mapsvc "loadrec/internal/maps"
	"loadrec/internal/modules/aiusage"
	"loadrec/internal/modules/detour"
	"loadrec/internal/modules/feedback"
	"loadrec/internal/modules/load"
	"loadrec/internal/modules/scoring"
	"loadrec/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	infra.SetupLogger(cfg.Log.Level, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapsClient, err := mapsvc.NewClient(cfg.Maps.APIKey, cfg.Maps.QPS)
	if err != nil {
		log.Fatal().Err(err).Msg("maps client")
	}
	estimator := detour.NewEstimator(mapsvc.NewRouteService(mapsClient), cfg.Detour.FuelCostPerKm)
	scorer := scoring.NewScorer(mapsvc.NewGeocoder(mapsClient), estimator, cfg.Scoring.Workers)

	var (
		loadStore     load.Store
		feedbackStore feedback.Store
	)
	switch cfg.Store.Backend {
	case config.StorePostgres:
		if err := infra.Migrate(cfg.DB.Migrations, cfg.DB.DSN); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		defer db.Close()
		loadStore = load.NewPGStore(db)
		feedbackStore = feedback.NewPGStore(db)
	case config.StoreFile:
		loadStore = load.NewFileStore(cfg.Store.LoadsFile)
		feedbackStore = feedback.NewFileStore(cfg.Store.FeedbackFile)
	default:
		log.Fatal().Str("backend", cfg.Store.Backend).Msg("unknown LOADREC_STORE")
	}
	loadSvc := load.NewService(loadStore)
	feedbackSvc := feedback.NewService(feedbackStore)

	var quota service.Quota
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rdb.Close()
		quota = aiusage.NewService(aiusage.NewStore(rdb), cfg.AI.MonthlyTokens)
	} else {
		log.Warn().Msg("LOADREC_REDIS_ADDR not set; AI usage is not metered")
	}

	llm, closeLLM, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("ai provider")
	}
	defer closeLLM()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init")
		}
	} else {
		log.Warn().Msg("LOADREC_FIREBASE_PROJECT_ID not set; API is unauthenticated")
	}

	rec := service.NewRecommender(loadSvc, scorer, llm, quota, cfg.AI.Timeout)
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Recommender:    rec,
		Loads:          loadSvc,
		Feedback:       feedbackSvc,
		Verifier:       verifier,
		FrontendOrigin: cfg.HTTP.FrontendOrigin,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("store", cfg.Store.Backend).
		Str("ai", cfg.AI.Provider).
		Msg("loadrec api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
}
