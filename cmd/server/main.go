package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nationbuilder/nationbuilder/internal/config"
	"github.com/nationbuilder/nationbuilder/internal/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "nationbuilder",
	Short:         "Nationbuilder scoring service and operator tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", utils.SafeEnv("NB_CONFIG", ""), "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, scoreCmd, compareCmd, leaderboardCmd, subscriptionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config and installs the process-wide logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, setupLogger(cfg.Log), nil
}

func setupLogger(c config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if c.Format == "json" {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	}
	log.Logger = logger
	return logger
}
