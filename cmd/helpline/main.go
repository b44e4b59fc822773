package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/helpline/internal/config"
	"github.com/user/helpline/internal/dispatch"
	"github.com/user/helpline/internal/state"
	"github.com/user/helpline/internal/types"

	"github.com/redis/go-redis/v9"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "helpline",
	Short: "Context capture and ticket submission for development help requests",
}

func init() {
	defaultPath := filepath.Join(os.Getenv("HOME"), ".helpline", "config.json")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the config file, exiting on failure. Commands call
// this instead of handling load errors individually.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newStore builds the session store named by the config. The returned
// close func is a no-op for the file driver.
func newStore(cfg *config.Config) (types.SessionStore, func() error, error) {
	switch cfg.Store.Driver {
	case "", "file":
		return state.NewFileStore(cfg.DataDir), func() error { return nil }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		store := state.NewRedisStore(client, time.Duration(cfg.Store.RedisTTLHours)*time.Hour)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// newDispatcher builds the dispatcher from config, mapping the
// auth scheme string onto the dispatch constant.
func newDispatcher(cfg *config.Config) dispatch.Dispatcher {
	scheme := dispatch.AuthServiceKey
	if cfg.API.AuthScheme == "bearer" {
		scheme = dispatch.AuthBearer
	}
	return dispatch.New(dispatch.Config{
		EndpointURL: cfg.API.URL,
		Secret:      cfg.API.Key,
		AuthScheme:  scheme,
		Mock:        cfg.API.Mock,
	})
}
