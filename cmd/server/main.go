package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadapter "seekan/internal/adapters/http"
	"seekan/internal/adapters/openai"
	pg "seekan/internal/adapters/postgres"
	"seekan/internal/adapters/sendcap"
	"seekan/internal/adapters/sendgrid"
	"seekan/internal/config"
	"seekan/internal/policies"
	"seekan/internal/ports"
	"seekan/internal/presets"
	analysissvc "seekan/internal/services/analysis"
	campaignsvc "seekan/internal/services/campaigns"
	draftsvc "seekan/internal/services/drafts"
	jobsvc "seekan/internal/services/jobs"
	outreachsvc "seekan/internal/services/outreach"
	profsvc "seekan/internal/services/profiles"
	"seekan/internal/workers/fanout"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	if err != nil {
		logger.Warn("config", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required for Postgres adapters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pg.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Wire repositories to services (ports)
	var _ ports.ProfileRepository = db
	var _ ports.CampaignRepository = db
	var _ ports.LeadRepository = db
	var _ ports.JobRepository = db
	var _ ports.DraftRepository = db
	var _ ports.SettingsRepository = db
	var _ ports.TokenRepository = db

	token := cfg.BootstrapToken
	if token == "" {
		// No API_TOKEN configured: mint one so a fresh instance is reachable.
		token = uuid.NewString()
		logger.Warn("API_TOKEN not set, generated bootstrap token", zap.String("token", token))
	}
	if _, err := db.EnsureToken(ctx, token, "bootstrap"); err != nil {
		logger.Fatal("bootstrap token", zap.Error(err))
	}

	var caps ports.SendCounter
	if cfg.RedisAddr != "" {
		rc, err := sendcap.NewRedis(cfg.RedisAddr, cfg.DailySendCap, logger)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rc.Close()
		caps = rc
	} else {
		logger.Warn("REDIS_ADDR not set, daily send cap is process-local")
		caps = sendcap.NewMemory(cfg.DailySendCap)
	}

	llm := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, logger)
	mail := sendgrid.New(cfg.SendGridAPIKey, cfg.AllowedSender, cfg.SenderName, logger)
	loader := presets.NewLoader(cfg.PresetsDir)
	guard := policies.New(db)

	processor := &fanout.Processor{Repo: db, Logger: logger}

	analysis := analysissvc.New(llm, db, cfg.DefaultModel, logger)
	outreach := outreachsvc.New(mail, caps, guard, db, cfg.SenderName, logger)
	profiles := profsvc.New(db, logger)
	campaigns := campaignsvc.New(db, loader, logger)
	jobs := jobsvc.New(db, db, db, processor, logger)
	drafts := draftsvc.New(db, db, db, mail, db, cfg.SenderName, cfg.SendCapPerRun, logger)

	srv := httpadapter.New(httpadapter.Deps{
		Analysis:      analysis,
		Outreach:      outreach,
		Profiles:      profiles,
		Campaigns:     campaigns,
		Jobs:          jobs,
		Drafts:        drafts,
		Settings:      db,
		Tokens:        db,
		RespectRobots: cfg.RespectRobots,
		Logger:        logger,
	})
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	// Optional background fan-out sweep
	if cfg.FanoutWorkers > 0 {
		go fanout.Run(ctx, db, processor, cfg.FanoutWorkers, cfg.SweepInterval)
		logger.Info("fan-out workers started", zap.Int("count", cfg.FanoutWorkers))
	}

	server := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	logger.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "development" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger.With(zap.String("service", "seekan"))
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("service", "seekan"))
}
