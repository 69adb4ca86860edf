package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/coldreach/internal/api"
	"github.com/kalambet/coldreach/internal/composer"
	"github.com/kalambet/coldreach/internal/config"
	"github.com/kalambet/coldreach/internal/engine"
	"github.com/kalambet/coldreach/internal/fetch"
	"github.com/kalambet/coldreach/internal/pipeline"
	"github.com/kalambet/coldreach/internal/profile"
	"github.com/kalambet/coldreach/internal/retrieval"
	"github.com/kalambet/coldreach/internal/storage"
	"github.com/kalambet/coldreach/internal/worker"
)

const (
	similarProfilesInPrompt = 3
	workerPollInterval      = 500 * time.Millisecond
	shutdownTimeout         = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the coldreach HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running coldreach server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show coldreach system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the outreach tools over MCP (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "coldreach.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

// app holds everything a serving process needs.
type app struct {
	store   *storage.Store
	engine  engine.Engine
	service *pipeline.Service
	worker  *worker.Worker
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("closing storage", "error", err)
	}
}

// buildApp wires storage, the generation backend, retrieval and the
// pipeline service from cfg.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	eng, err := engine.Select(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("selecting generation backend: %w", err)
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	// Only the local backend serves embeddings; other backends run with
	// semantic search disabled.
	var embedder *retrieval.Embedder
	if oe, ok := engine.Unwrap(eng).(*engine.OllamaEngine); ok && cfg.Ollama.EmbedModel != "" {
		embedder = retrieval.NewEmbedder(oe, cfg.Ollama.EmbedModel)
	}
	retriever := retrieval.NewRetriever(embedder, retrieval.NewSQLiteStore(store.DB()))

	comp := composer.New(eng,
		composer.WithParams(composer.Params{
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temperature,
			TopP:        cfg.Generation.TopP,
		}),
		composer.WithTimeout(cfg.Generation.Timeout()),
		composer.WithConcurrency(cfg.Generation.Concurrency),
		composer.WithSimilar(store, similarProfilesInPrompt),
	)

	normalizer := profile.DefaultNormalizer()
	fetcher := fetch.New(fetch.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))
	svc := pipeline.New(pipeline.Deps{
		Normalizer: normalizer,
		Resolver:   profile.NewResolver(normalizer, fetcher, cfg.Profiles.CacheTTL()),
		Composer:   comp,
		Store:      store,
		Retriever:  retriever,
	})

	return &app{
		store:   store,
		engine:  eng,
		service: svc,
		worker:  worker.New(store, retriever, workerPollInterval),
	}, nil
}

// startWorker requeues jobs abandoned by a previous process and runs the
// worker until ctx is done or the returned stop func is called. stop blocks
// until the worker has returned, so the store can be closed after it.
func (a *app) startWorker(ctx context.Context) (stop func()) {
	if n, err := a.store.RequeueRunningJobs(); err != nil {
		slog.Warn("requeueing running jobs", "error", err)
	} else if n > 0 {
		slog.Info("requeued interrupted jobs", "count", n)
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.worker.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// newHTTPServer wraps h with the server timeouts. Request contexts are not
// derived from the signal context, so Shutdown can drain in-flight requests.
func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runServer() error {
	printVersion()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(serverURL(cfg) + "/health"); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := engine.EnsureReady(ctx, a.engine, cfg.Ollama.EmbedModel, os.Stderr); err != nil {
		printWarning("%v", err)
		printWarning("generation requests will fail until the backend is reachable")
	}

	stopWorker := a.startWorker(ctx)
	defer stopWorker()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := newHTTPServer(addr, api.NewHandler(api.Deps{
		Service: a.service,
		Backend: a.engine,
		Version: version,
		Started: time.Now(),
	}))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("coldreach listening", "addr", addr, "backend", a.engine.Name(), "model", a.engine.Model())
	return serve(ctx, srv, ln)
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.engine.IsRunning(ctx) {
		slog.Warn("generation backend not reachable", "backend", a.engine.Name())
	}
	stopWorker := a.startWorker(ctx)
	defer stopWorker()

	stdio := server.NewStdioServer(api.NewMCPServer(a.service, version))
	slog.Info("MCP server started (stdio transport)")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("coldreach is not running (no PID file): %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("could not find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		removePIDFile(pidPath)
		return fmt.Errorf("could not stop coldreach (PID %d): %w", pid, err)
	}

	printSuccess("Sent stop signal to coldreach (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var health api.HealthResponse
	resp, err := client.get(ctx, "/health")
	if err == nil {
		err = decodeJSON(resp, &health)
	}
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "%s on %s (version %s, up %s)", health.Status, serverURL(cfg), health.Version,
			(time.Duration(health.UptimeSeconds) * time.Second).String())
		backend := "unreachable"
		if health.BackendReachable {
			backend = "reachable"
		}
		printStatus("Backend", "%s (%s), %s", health.Backend, health.Model, backend)

		var st pipeline.Stats
		if resp, err := client.get(ctx, "/api/stats"); err == nil && decodeJSON(resp, &st) == nil {
			printStatus("Profiles", "%d (%d indexed)", st.Profiles, st.IndexedProfiles)
			printStatus("Messages", "%d", st.Messages)
			printStatus("Pending jobs", "%d", st.Jobs["pending"])
		}
	}

	printStatus("Generation", "%s", cfg.Generation.Backend)
	printStatus("Embed model", "%s", cfg.Ollama.EmbedModel)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
