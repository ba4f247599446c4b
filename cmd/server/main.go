package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"healthwatch/internal/config"
	"healthwatch/internal/quiz"
	"healthwatch/internal/seed"
	"healthwatch/pkg/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthwatch",
		Short: "Outbreak surveillance and health education API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger writes human-readable lines in development and JSON elsewhere.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// setup loads configuration (including .env) before building the logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, envFound, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := newLogger(cfg, os.Stdout)
	if !envFound {
		logger.Warn().Msg(".env file not found")
	}
	return cfg, logger, nil
}

func openDatabase(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(cfg.Database(), logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			return runServer(cfg, logger)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if _, err := openDatabase(cfg, logger); err != nil {
				return err
			}
			logger.Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the reference disease catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			res := seed.Diseases(context.Background(), quiz.NewRepository(db), logger)
			if res.Failed > 0 {
				return fmt.Errorf("%d diseases failed to seed", res.Failed)
			}
			return nil
		},
	}
}
