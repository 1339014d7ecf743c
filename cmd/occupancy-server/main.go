package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"occupancy/internal/config"
	"occupancy/internal/exporter"
	"occupancy/internal/importer"
	"occupancy/internal/server"
	"occupancy/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("加载配置失败，使用默认配置", "error", err)
		cfg = config.DefaultConfig()
	}
	window, err := cfg.Window()
	if err != nil {
		logger.Error("invalid report window", "error", err)
		os.Exit(1)
	}

	var st *store.Store
	if cfg.Data.Ledger {
		st, err = store.New(config.LedgerPath(cfg))
		if err != nil {
			logger.Error("open ledger failed", "error", err)
			os.Exit(1)
		}
		defer st.Close()
	}

	srv := server.NewServer(cfg, importer.Options{
		Window:       window,
		Layout:       exporter.Layout{DayLabel: cfg.Report.DayLabel},
		Sheet:        cfg.Report.Sheet,
		HeaderRow:    cfg.Report.HeaderRow,
		ResultSuffix: cfg.Report.ResultSuffix,
		StrictTimes:  cfg.Report.StrictTimes,
	}, st, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.Run(addr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
}
