// Command celebco-server serves fuzzy celebrity-to-company lookups over HTTP.
//
// Subcommands:
//   - serve: run the HTTP API (default)
//   - lookup: run one search against the data file and print the JSON payload
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/celebco/backend/config"
	httpDelivery "github.com/celebco/backend/internal/delivery/http"
	"github.com/celebco/backend/internal/domain"
	"github.com/celebco/backend/internal/infrastructure/corpus"
	"github.com/celebco/backend/internal/infrastructure/limiter"
	"github.com/celebco/backend/internal/logging"
	"github.com/celebco/backend/internal/usecase"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var v = config.New()

var rootCmd = &cobra.Command{
	Use:           "celebco-server",
	Short:         "Fuzzy celebrity company lookup service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Search the data file once and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./config.yaml, ./config/config.yaml, /etc/celebco/config.yaml)")
	flags.String("data", "", "path to the celebrity companies JSON file")
	flags.String("port", "", "port to listen on")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	bindFlag(v, "data.path", "data")
	bindFlag(v, "server.port", "port")
	bindFlag(v, "log.level", "log-level")

	rootCmd.AddCommand(serveCmd, lookupCmd)
}

func bindFlag(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and loads the corpus
func setup(ctx context.Context, logOut io.Writer) (*config.Config, *domain.Corpus, error) {
	cfg, err := config.LoadWith(v, configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.SetupWriter(logOut, cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, nil, err
	}

	var source domain.CorpusSource = corpus.NewFileSource(cfg.Data.Path)
	data, err := source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	return cfg, data, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, data, err := setup(ctx, os.Stdout)
	if err != nil {
		return err
	}

	log.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Strs("allowed_origins", cfg.Server.AllowedOrigins).
		Int("records", data.Len()).
		Msg("starting celebco backend")

	log.Info().
		Int("cutoff", cfg.Search.Cutoff).
		Int("limit", cfg.Search.Limit).
		Int("ratelimit_requests", cfg.RateLimit.Requests).
		Dur("ratelimit_window", cfg.RateLimit.Window).
		Msg("search configured")

	limiters := limiter.NewMemoryStore(limiter.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
		IdleTTL:  cfg.RateLimit.IdleTTL,
	})
	defer limiters.Close()

	searchService := usecase.NewSearchService(data, usecase.SearchServiceConfig{
		Cutoff: cfg.Search.Cutoff,
		Limit:  cfg.Search.Limit,
	})

	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler, limiters)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server shutdown complete")
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	// stdout carries the JSON payload
	cfg, data, err := setup(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	searchService := usecase.NewSearchService(data, usecase.SearchServiceConfig{
		Cutoff: cfg.Search.Cutoff,
		Limit:  cfg.Search.Limit,
	})

	response, err := searchService.Search(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			return errors.New(domain.MsgInvalidQuery)
		}
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
