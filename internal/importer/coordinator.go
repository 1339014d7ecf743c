package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"occupancy/internal/exporter"
	"occupancy/internal/model"
	"occupancy/internal/parser"
	"occupancy/internal/store"
)

// Ledger 运行台账（可选）
type Ledger interface {
	CreateRun(month string) (string, error)
	RecordFile(runID string, rec store.FileRecord) (string, error)
	SaveCounts(fileID string, cells []model.Cell) error
	FinishRun(id, status string, totalFiles, failedFiles int) error
}

// Coordinator 批处理协调器：逐个文件 读取 -> 统计 -> 写出
type Coordinator struct {
	opts   Options
	ledger Ledger
	logger *slog.Logger
}

// NewCoordinator 创建协调器；ledger 可以为 nil
func NewCoordinator(opts Options, ledger Ledger, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		opts:   opts,
		ledger: ledger,
		logger: logger,
	}
}

// ListInputFiles 输入目录中的 .xlsx 文件（按文件名排序，忽略目录和 Office 锁文件）
func ListInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Run 依次处理输入目录下的全部文件，返回进度通道。
// 每个文件的结果写完后才开始下一个文件；通道在最后一个文件写完后关闭。
func (c *Coordinator) Run(ctx context.Context) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)

	go func() {
		defer close(ch)
		c.run(ctx, ch)
	}()

	return ch
}

func (c *Coordinator) run(ctx context.Context, ch chan<- ProgressEvent) {
	start := time.Now()
	summary := &RunSummary{Month: c.opts.Month.String()}

	files, err := ListInputFiles(c.opts.InputDir)
	if err != nil {
		c.send(ctx, ch, ProgressEvent{Type: "error", Message: err.Error(), Timestamp: time.Now()})
		return
	}

	if c.ledger != nil {
		if id, err := c.ledger.CreateRun(summary.Month); err != nil {
			c.logger.Warn("ledger unavailable", "error", err)
		} else {
			summary.RunID = id
		}
	}

	c.send(ctx, ch, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("processing %d files for %s", len(files), summary.Month),
		Data: map[string]interface{}{
			"total_files": len(files),
			"month":       summary.Month,
		},
		Timestamp: time.Now(),
	})

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		c.send(ctx, ch, ProgressEvent{
			Type:      "file_start",
			Message:   filepath.Base(path),
			Timestamp: time.Now(),
		})

		res := c.ProcessFile(path)
		summary.Files = append(summary.Files, res)
		c.record(summary.RunID, res)

		evt := ProgressEvent{Type: "file_" + string(res.Status), Message: res.FileName, Data: res, Timestamp: time.Now()}
		if res.Err != nil {
			evt.Message = res.Err.Error()
		}
		c.send(ctx, ch, evt)
	}

	summary.Duration = time.Since(start)
	status := "done"
	if ctx.Err() != nil {
		status = "cancelled"
	}
	if c.ledger != nil && summary.RunID != "" {
		if err := c.ledger.FinishRun(summary.RunID, status, len(summary.Files), summary.Failed()); err != nil {
			c.logger.Warn("ledger finish failed", "run", summary.RunID, "error", err)
		}
	}

	// done 事件在取消时也要送达
	ch <- ProgressEvent{Type: "done", Message: status, Data: summary, Timestamp: time.Now()}
}

// ProcessFile 处理单个文件：读取 -> 统计 -> 写出结果
func (c *Coordinator) ProcessFile(path string) *FileResult {
	start := time.Now()
	name := filepath.Base(path)
	res := &FileResult{FileName: name, InputPath: path}
	log := c.logger.With("file", name)

	defer func() {
		res.Duration = time.Since(start)
	}()

	wb, err := excelize.OpenFile(path)
	if err != nil {
		res.Status = FileFailed
		res.Err = &FileError{File: name, Err: err}
		log.Error("open workbook failed", "error", err)
		return res
	}
	defer wb.Close()

	analysis, err := Analyze(wb, c.opts)
	if err != nil {
		res.Err = &FileError{File: name, Err: err}
		var resErr *parser.ResolutionError
		if errors.As(err, &resErr) || errors.Is(err, ErrMissingHeader) {
			res.Status = FileSkipped
			log.Warn("day columns could not be resolved, file skipped", "error", err)
		} else {
			res.Status = FileFailed
			log.Error("read attendance failed", "error", err)
		}
		return res
	}

	res.RowsRead = analysis.RowsRead
	res.Intervals = analysis.Intervals
	res.Buckets = analysis.Buckets
	res.Dropped = analysis.Grid.Dropped
	res.Warnings = analysis.Warnings
	for _, w := range analysis.Warnings {
		log.Warn("cell ignored", "sheet", analysis.Sheet, "row", w.Row, "column", w.Column, "text", w.Text, "reason", w.Reason)
	}

	table := exporter.BuildReportGrid(analysis.Grid, c.opts.Layout)
	out := filepath.Join(c.opts.OutputDir, exporter.ResultFileName(name, c.opts.ResultSuffix))
	n, err := exporter.WriteWorkbook(table, out)
	if err != nil {
		res.Status = FileFailed
		res.Err = &FileError{File: name, Err: err}
		log.Error("write result failed", "output", out, "error", err)
		return res
	}

	// 只有写出成功的文件才带统计结果
	res.Status = FileDone
	res.Grid = analysis.Grid
	res.OutputPath = out
	res.Bytes = n
	log.Info("report written",
		"output", out,
		"rows", res.RowsRead,
		"intervals", res.Intervals,
		"buckets", res.Buckets,
		"outside_window", res.Dropped,
	)
	return res
}

func (c *Coordinator) record(runID string, res *FileResult) {
	if c.ledger == nil || runID == "" {
		return
	}
	rec := store.FileRecord{
		FileName:   res.FileName,
		OutputPath: res.OutputPath,
		Status:     string(res.Status),
		RowsRead:   res.RowsRead,
		Intervals:  res.Intervals,
		Buckets:    res.Buckets,
		Dropped:    res.Dropped,
		Warnings:   len(res.Warnings),
	}
	if res.Err != nil {
		rec.ErrorMessage = res.Err.Error()
	}
	fileID, err := c.ledger.RecordFile(runID, rec)
	if err != nil {
		c.logger.Warn("ledger record failed", "file", res.FileName, "error", err)
		return
	}
	if res.Status == FileDone && res.Grid != nil {
		if err := c.ledger.SaveCounts(fileID, res.Grid.Cells()); err != nil {
			c.logger.Warn("ledger save counts failed", "file", res.FileName, "error", err)
		}
	}
}

func (c *Coordinator) send(ctx context.Context, ch chan<- ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}
