package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/config"
	"github.com/ponyo877/roomchat/server/domain"
	"github.com/ponyo877/roomchat/server/repository"
	"github.com/ponyo877/roomchat/server/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open db")
	}
	defer db.Close()

	rp := repository.NewRepository(db)
	hub := domain.NewHub()
	uc := usecase.NewUsecase(rp, cfg.HashCost)
	chat := usecase.NewChatUsecase(rp, hub, log.Logger)
	ad := adaptor.NewAdaptor(uc, chat, cfg)

	sweeper := usecase.NewPresenceSweeper(rp, cfg.SweepInterval, cfg.IdleAfter, log.Logger)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: ad.Router(),
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("roomchat server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// hijacked websocket connections are not tracked by Shutdown
	hub.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := ad.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("websocket handlers still running")
	}
	st := hub.Stats()
	log.Info().Int64("events", st.TotalEvents).Int64("dropped", st.DroppedFrames).Dur("uptime", st.Uptime).Msg("server exited gracefully")
}
