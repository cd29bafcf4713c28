package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/matrix-org/retro-bot/internal/api"
	"github.com/matrix-org/retro-bot/internal/biz/usecase"
	"github.com/matrix-org/retro-bot/internal/conf"
	"github.com/matrix-org/retro-bot/internal/data"
	"github.com/matrix-org/retro-bot/internal/infra/board"
	"github.com/matrix-org/retro-bot/internal/infra/matrix"
	"github.com/matrix-org/retro-bot/internal/server"
	"github.com/matrix-org/retro-bot/internal/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg, err := conf.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if !cfg.Debug {
		log = log.Level(zerolog.InfoLevel)
	}

	// Initialize clients
	matrixClient, err := matrix.NewClient(cfg.Matrix.HomeserverURL, cfg.Matrix.AccessToken,
		log.With().Str("component", "matrix").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create matrix client")
	}
	boardClient := board.NewClient(cfg.GitHub.Token, cfg.GitHub.ProjectOwner,
		cfg.GitHub.ProjectID, cfg.GitHub.ColumnName,
		log.With().Str("component", "board").Logger())

	// Startup preconditions: the project must exist, the room must be
	// reachable and the bot must know who it is
	ctx := context.Background()
	if err := boardClient.ResolveProject(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to resolve retro project")
	}
	roomID, err := matrixClient.EnsureJoined(ctx, cfg.Matrix.NoticeRoom)
	if err != nil {
		log.Fatal().Err(err).Str("room", cfg.Matrix.NoticeRoom).Msg("failed to join notice room")
	}
	identity, err := matrixClient.ResolveIdentity(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve bot identity")
	}
	log.Info().Str("user_id", identity.UserID).Str("room_id", roomID).Msg("bot identity resolved")

	// Initialize repository layer
	repos := data.NewRepositories(matrixClient, boardClient)

	// Initialize usecase layer
	formatUC := usecase.NewFormatUsecase(repos.Mention, cfg.Initials, roomID)
	actionsUC := usecase.NewActionsUsecase(repos.Board, formatUC)
	reminderUC := usecase.NewReminderUsecase(repos.ReminderState, usecase.ReminderConfig{
		Recurrence:   cfg.Reminder.ToRecurrence(),
		CooldownDays: cfg.Reminder.CooldownDays,
	}, log.With().Str("component", "reminder").Logger())

	// Initialize service layer
	cmdSvc := service.NewCommandService(actionsUC, reminderUC, repos.Chat, identity, roomID,
		log.With().Str("component", "command").Logger())

	var scheduler *service.ReminderScheduler
	if cfg.Reminder.Enabled() {
		scheduler = service.NewReminderScheduler(actionsUC, reminderUC, repos.Chat, roomID,
			cfg.Reminder.TickMinutes, log.With().Str("component", "scheduler").Logger())
	} else {
		log.Info().Msg("no reminder start date configured, reminders disabled")
	}

	// Supervision HTTP server
	apiServer := api.NewServer(identity, roomID, repos.ReminderState, cfg.APIPort,
		log.With().Str("component", "api").Logger())
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("supervision server error")
		}
	}()

	srv := server.NewMatrixServer(matrixClient, cmdSvc, scheduler,
		log.With().Str("component", "server").Logger())

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		srv.Stop()
		apiServer.Stop()
	}()

	log.Info().Msg("bot started")
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
