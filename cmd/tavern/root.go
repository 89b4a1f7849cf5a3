package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xtding233/tavern-gambit/internal/balance"
	"github.com/xtding233/tavern-gambit/internal/config"
	"github.com/xtding233/tavern-gambit/internal/logging"
	"github.com/xtding233/tavern-gambit/internal/save"
	"github.com/xtding233/tavern-gambit/internal/tavern"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tavern",
	Short: "A card-draw tavern game for the terminal",
	Long: `Tavern Gambit deals a row of face-down cards each round. Pick one to
collect its gold or materials, then spend them in the shop on luck (better
odds) and extra card slots (bigger rows). Progress is saved between runs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tavern-gambit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// session is everything a command needs to drive the game.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	loader *balance.Loader
	game   *tavern.Game
}

func loadSettings() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config) (save.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return save.NewRedisStore(ctx, save.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendMemory:
		return save.NewMemoryStore(), nil
	default:
		return save.NewFileStore(cfg.GetSaveDir())
	}
}

func openSession(ctx context.Context) (*session, error) {
	cfg, log, err := loadSettings()
	if err != nil {
		return nil, err
	}

	loader := balance.NewLoader(cfg.Balance)
	table, err := loader.Load()
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("balance: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	game, err := tavern.New(ctx, tavern.Options{
		Store:   store,
		Balance: table,
		Logger:  log,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, loader: loader, game: game}, nil
}

func (s *session) Close() {
	if err := s.game.Close(); err != nil {
		s.log.Warn("close store", zap.Error(err))
	}
	_ = s.log.Sync()
}
