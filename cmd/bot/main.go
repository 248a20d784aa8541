package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/config"
	"github.com/aliskhannn/vocab-trainer-bot/internal/delivery/telegram"
	"github.com/aliskhannn/vocab-trainer-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/vocab-trainer-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/vocab-trainer-bot/internal/logger"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
	"github.com/aliskhannn/vocab-trainer-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	modes, err := cfg.Study.ParsedModes()
	if err != nil {
		return err
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:          int32(cfg.DB.MaxConnections),
		MaxConnLifetime:   cfg.DB.MaxConnLifetime,
		HealthCheckPeriod: cfg.DB.HealthCheck,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "study", Description: "Start a study session"},
		{Command: "quit", Description: "End the current session"},
		{Command: "count", Description: "Words per session (usage: /count 15)"},
		{Command: "modes", Description: "Show or choose study modes"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Initialize repositories and services.
	userRepo := pgrepo.NewUserRepository(pool)
	libraryRepo := pgrepo.NewLibraryRepository(pool)
	policyRepo := pgrepo.NewPolicyRepository(pool)
	statsRepo := pgrepo.NewStatisticsRepository(postgres.NewTransactor(pool))

	generator := service.NewSessionGenerator(
		service.NewPriorityScorer(nil),
		service.NewRandomSource(),
		lg.Named("generator"),
	)

	userService := service.NewUserService(userRepo)
	studyService := service.NewStudyService(
		libraryRepo,
		policyRepo,
		statsRepo,
		storage.NewSessionStorage(),
		generator,
		service.StudyDefaults{
			WordCount:      cfg.Study.WordCount,
			Modes:          modes,
			RandomizeModes: cfg.Study.RandomizeModes,
			RandomRelation: cfg.Study.RandomRelation,
		},
		lg.Named("study"),
	)

	handler := telegram.NewHandler(
		bot,
		lg.Named("telegram"),
		userService,
		studyService,
		storage.NewMessageStorage(),
	)

	sweeper := service.NewSessionSweeper(
		studyService,
		cfg.Study.SweepSchedule,
		cfg.Study.IdleTimeout,
		lg.Named("sweeper"),
	)
	sweeper.SetNotifier(handler)
	go sweeper.Start(ctx)

	err = handler.Run(ctx)
	if errors.Is(err, context.Canceled) {
		lg.Info("shutdown signal received")
		return nil
	}
	return err
}
