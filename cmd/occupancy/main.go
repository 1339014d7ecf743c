package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"occupancy/internal/config"
	"occupancy/internal/exporter"
	"occupancy/internal/importer"
	"occupancy/internal/parser"
	"occupancy/internal/store"
	"occupancy/internal/util"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, util.Errorf("Invalid configuration: %v", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr, util.IsInteractive(os.Stdin))
	stop()
	os.Exit(code)
}

// run 执行一次批处理并返回退出码：0 成功，1 年月/目录错误，2 全部文件失败
func run(ctx context.Context, cfg *config.AppConfig, stdin io.Reader, stdout, stderr io.Writer, interactive bool) int {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// 基准年月：配置优先，否则交互输入
	text := cfg.Report.Month
	if text == "" {
		var err error
		text, err = util.PromptLine(stdin, stdout, util.MonthPrompt, interactive)
		if err != nil {
			fmt.Fprintln(stderr, util.Errorf("Failed to read the standard year and month: %v", err))
			return 1
		}
	}
	month, err := parser.ParseReferenceMonth(text)
	if err != nil {
		fmt.Fprintln(stderr, util.Errorf("Please fill in the correct date. Please run the program again. (%v)", err))
		return 1
	}
	fmt.Fprintf(stdout, "Standard year and month is %s\n", month)

	window, err := cfg.Window()
	if err != nil {
		fmt.Fprintln(stderr, util.Errorf("Invalid configuration: %v", err))
		return 1
	}
	if err := config.EnsureDirs(cfg); err != nil {
		fmt.Fprintln(stderr, util.Errorf("Failed to create output directory: %v", err))
		return 1
	}

	var ledger importer.Ledger
	if cfg.Data.Ledger {
		st, err := store.New(config.LedgerPath(cfg))
		if err != nil {
			logger.Warn("ledger disabled", "error", err)
		} else {
			defer st.Close()
			ledger = st
		}
	}

	coord := importer.NewCoordinator(importer.Options{
		Month:        month,
		Window:       window,
		Layout:       exporter.Layout{DayLabel: cfg.Report.DayLabel},
		InputDir:     cfg.Data.InputDir,
		OutputDir:    cfg.Data.OutputDir,
		Sheet:        cfg.Report.Sheet,
		HeaderRow:    cfg.Report.HeaderRow,
		ResultSuffix: cfg.Report.ResultSuffix,
		StrictTimes:  cfg.Report.StrictTimes,
	}, ledger, logger)

	var summary *importer.RunSummary
	failed := false
	for evt := range coord.Run(ctx) {
		switch evt.Type {
		case "error":
			fmt.Fprintln(stderr, util.Errorf("%s", evt.Message))
			failed = true
		case "start":
			fmt.Fprintln(stdout, evt.Message)
		case "file_done", "file_skipped", "file_failed":
			printFile(stdout, evt.Data.(*importer.FileResult))
		case "done":
			summary = evt.Data.(*importer.RunSummary)
		}
	}
	if failed || summary == nil {
		return 1
	}

	fmt.Fprintf(stdout, "%d files processed, %d not written (%s)\n",
		len(summary.Files), summary.Failed(), util.FormatDuration(summary.Duration))

	if len(summary.Files) > 0 && summary.Failed() == len(summary.Files) {
		return 2
	}
	return 0
}

func printFile(w io.Writer, res *importer.FileResult) {
	if res.Status != importer.FileDone {
		fmt.Fprintf(w, "%s %s: %v\n", util.StatusLabel(string(res.Status)), res.FileName, res.Err)
		return
	}
	fmt.Fprintf(w, "%s %s -> %s (%s, %d intervals, %d outside window)\n",
		util.StatusLabel(string(res.Status)),
		res.FileName,
		res.OutputPath,
		util.FormatBytes(res.Bytes),
		res.Intervals,
		res.Dropped,
	)
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "    %s\n", warn)
	}
}
