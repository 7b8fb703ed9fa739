// Command sellscalehood-server runs the collaborator API service: the
// portfolio, stock, and trade endpoints backed by a holdings store and a
// live quote source.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/emad-siddiq/sellscalehood/internal/config"
	"github.com/emad-siddiq/sellscalehood/internal/httpapi"
	"github.com/emad-siddiq/sellscalehood/internal/quote"
	"github.com/emad-siddiq/sellscalehood/internal/store"
	"github.com/emad-siddiq/sellscalehood/internal/universe"
	"github.com/emad-siddiq/sellscalehood/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (default: built-in config)")
	memory := flag.Bool("memory", false, "use the in-memory holdings store instead of SQLite")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = os.Getenv("SELLSCALEHOOD_CONFIG")
	}

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	logger := util.NewStdoutLogger(cfg.Logging.Level, cfg.Logging.Format)

	u := universe.Default()
	if cfg.Tickers.CSVPath != "" {
		u, err = universe.LoadCSV(cfg.Tickers.CSVPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading ticker universe: %v\n", err)
			os.Exit(1)
		}
	}
	logger.Info("ticker universe loaded", "symbols", u.Len())

	var holdings store.HoldingStore
	if *memory || cfg.Storage.Memory {
		holdings = store.NewMemoryStore()
		logger.Info("using in-memory holdings store")
	} else {
		holdings, err = store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening holdings store: %v\n", err)
			os.Exit(1)
		}
		logger.Info("holdings store opened", "path", cfg.Storage.SQLitePath)
	}
	defer holdings.Close()

	quotes := quote.NewYahooSource(cfg.Quotes, logger)
	api := httpapi.NewServer(holdings, quotes, u, logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("sellscalehood-server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
