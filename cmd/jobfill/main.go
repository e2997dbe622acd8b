// Command jobfill drives job-application autofill against a live
// Chrome: it detects application forms on the open pages, keeps the
// applicant profile in SQLite, and exposes an HTTP surface plus
// optional MCP tools.
//
// Usage:
//
//	jobfill -config jobfill.yaml            # full config
//	jobfill -url https://boards.example/jobs/123
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/browser"
	"github.com/hazyhaar/jobfill/config"
	"github.com/hazyhaar/jobfill/coordinator"
	"github.com/hazyhaar/jobfill/dom/rodpage"
	"github.com/hazyhaar/jobfill/inspector"
	"github.com/hazyhaar/jobfill/store"
	"github.com/hazyhaar/jobfill/ui"
)

func main() {
	configPath := flag.String("config", "", "path to jobfill.yaml config file")
	singleURL := flag.String("url", "", "open and inspect a single URL")
	listen := flag.String("listen", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	withMCP := flag.Bool("mcp", false, "serve MCP tools on stdio")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *listen, *dbPath, *withMCP); err != nil {
		logger.Error("jobfill: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, listen, dbPath string, withMCP bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if singleURL != "" {
		cfg.Pages = append(cfg.Pages, config.PageConfig{ID: "page-cli", URL: singleURL})
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if withMCP {
		cfg.MCP.Enabled = true
	}
	if len(cfg.Pages) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jobfill -config <file> | -url <url>")
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	bus := bridge.New(bridge.WithLogger(logger))
	defer bus.Close()

	coord := coordinator.New(bus, st, logger)

	mgr := browser.NewManager(browser.Config{
		RemoteURL: cfg.Browser.Remote,
		Headless:  cfg.Browser.Headless,
		Stealth:   cfg.Browser.Stealth != "off",
		Logger:    logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	for _, pc := range cfg.Pages {
		tab, err := browser.OpenTab(ctx, mgr, pc.URL, pc.ID)
		if err != nil {
			logger.Warn("jobfill: open page failed", "id", pc.ID, "url", pc.URL, "error", err)
			continue
		}
		defer tab.Close()

		page := rodpage.New(tab.Page, pc.URL)
		ins := inspector.New(inspector.Config{
			Name:        pc.ID,
			Coordinator: coordinator.Name,
			Page:        page,
			Watcher:     page,
			Bus:         bus,
			Debounce:    cfg.Debounce(),
			Logger:      logger,
		})
		go func(id string) {
			if err := ins.Run(ctx); err != nil {
				logger.Warn("jobfill: inspector stopped", "page", id, "error", err)
			}
			coord.PageClosed(id)
		}(pc.ID)

		coord.PageLoaded(ctx, pc.ID, pc.URL)
	}

	if cfg.MCP.Enabled {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "jobfill",
			Version: "1.0.0",
		}, nil)
		coord.RegisterMCP(srv)
		go func() {
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				logger.Error("jobfill: mcp server", "error", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:    cfg.Listen,
		Handler: ui.New(bus, coord, logger).Routes(),
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutCtx)
	}()

	logger.Info("jobfill: serving", "addr", cfg.Listen, "pages", len(cfg.Pages))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
