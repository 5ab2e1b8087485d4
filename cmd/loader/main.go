package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/config"
	"github.com/Clark-Hu/movie-reviews/internal/loader"
	"github.com/Clark-Hu/movie-reviews/internal/logging"
	"github.com/Clark-Hu/movie-reviews/internal/repository"
	"github.com/Clark-Hu/movie-reviews/internal/store"
)

var (
	csvFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "loader",
	Short:         "Load movies from a CSV file",
	Long:          `Reads a CSV file with Title, Year and Genre columns and creates one movie per row. Rows that fail are logged and skipped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLoad,
}

func init() {
	rootCmd.Flags().StringVarP(&csvFile, "file", "f", "movies.csv", "CSV file to load")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runLoad(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	logger, err := logging.New(logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if _, err := os.Stat(csvFile); err != nil {
		return fmt.Errorf("%s not found", csvFile)
	}

	dsn, err := config.LoaderDatabaseURL()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, dsn, store.Options{MaxConns: 4, Logger: logger.Named("store")})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	repo := repository.New(st, nil)
	svc := catalog.NewService(repo.Movies, repo.Reviews, logger.Named("catalog"))

	res, err := loader.New(svc, logger.Named("loader")).LoadFile(ctx, csvFile)
	if err != nil {
		return err
	}
	logger.Info("sample data loaded", zap.String("file", csvFile), zap.Int("inserted", res.Inserted))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
