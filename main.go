package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordchain/internal/config"
	"github.com/robalobadob/wordchain/internal/game"
	"github.com/robalobadob/wordchain/internal/httpserver"
	"github.com/robalobadob/wordchain/internal/server"
	"github.com/robalobadob/wordchain/internal/store"
	"github.com/robalobadob/wordchain/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	dict, err := words.Load(words.Options{Path: cfg.DictionaryFile, CaseSensitive: cfg.DictionaryCaseSensitive})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	log.Info().Int("words", dict.Len()).Bool("caseSensitive", dict.CaseSensitive()).Msg("dictionary loaded")
	if dict.CaseSensitive() {
		log.Warn().Msg("dictionary is case-sensitive: words must match the list exactly")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open play log")
	}
	defer st.Close()

	room := game.NewRoom(cfg.Rules(), game.NewValidator(dict), game.WithRecorder(st))
	defer room.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(room).ListenAndServe(ctx, cfg.ListenAddr)
	})
	if cfg.StatusEnabled() {
		g.Go(func() error {
			return httpserver.New(room, st, cfg.ClientOrigin).Start(ctx, cfg.HTTPAddr)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("shut down")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if !cfg.PersistPlays() {
		log.Info().Msg("play log kept in memory")
		return store.NewMemoryStore(), nil
	}
	log.Info().Str("path", cfg.DatabasePath).Msg("opening play log")
	return store.OpenSQLite(cfg.DatabasePath)
}
