package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/llm"
	"github.com/nikogura/resume-studio/pkg/pipeline"
	"github.com/nikogura/resume-studio/pkg/server"
	"github.com/nikogura/resume-studio/pkg/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation API over HTTP",
	Long: `Serve generation, session editing and downloads over HTTP.

Sessions are kept in memory unless the config selects the redis backend
(or REDIS_ADDR is set).

Example:
  resume-studio serve
  resume-studio serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if getVerbose() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var completer llm.Completer
	completer, err = llm.NewCompleter(ctx, cfg.LLMConfig())
	if err != nil {
		err = errors.Wrap(err, "failed to create completion client")
		return err
	}
	if closer, ok := completer.(io.Closer); ok {
		defer closer.Close()
	}

	var store session.Store
	store, err = openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	logger.Info("configured",
		"provider", cfg.Provider,
		"model", cfg.GetModel(),
		"session_backend", cfg.Session.Backend,
		"session_ttl", cfg.SessionTTL(),
	)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.New(pipeline.New(completer), store, logger)
	err = srv.ListenAndServe(ctx, addr)
	return err
}

func openSessionStore(ctx context.Context, cfg config.Config) (store session.Store, err error) {
	if cfg.Session.Backend != config.BackendRedis {
		store = session.NewMemoryStore(cfg.SessionTTL())
		return store, err
	}

	var redisStore *session.RedisStore
	redisStore, err = session.DialRedis(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB, cfg.SessionTTL())
	if err != nil {
		return store, err
	}

	store = redisStore
	return store, err
}
