package importer

import (
	"errors"
	"fmt"
	"time"

	"occupancy/internal/exporter"
	"occupancy/internal/model"
)

// ErrMissingHeader 找不到表头行，或表头中没有任何日期列
var ErrMissingHeader = errors.New("missing day header")

// FileStatus 文件处理状态
type FileStatus string

const (
	FileDone    FileStatus = "done"    // 已写出结果
	FileSkipped FileStatus = "skipped" // 列日期无法解析，未写结果
	FileFailed  FileStatus = "failed"  // 读写失败
)

// Options 处理选项
type Options struct {
	Month        model.ReferenceMonth
	Window       model.ReportWindow
	Layout       exporter.Layout
	InputDir     string
	OutputDir    string
	Sheet        string
	HeaderRow    int
	ResultSuffix string
	StrictTimes  bool
}

// FileError 带文件名的错误
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// CellWarning 单元格级别的问题，不影响文件其余部分
type CellWarning struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (w CellWarning) String() string {
	return fmt.Sprintf("row %d column %d (%q): %s", w.Row, w.Column, w.Text, w.Reason)
}

// Analysis 单个工作表的统计结果
type Analysis struct {
	Sheet     string
	Grid      *model.CountGrid
	RowsRead  int
	Intervals int
	Buckets   int
	Warnings  []CellWarning
}

// FileResult 单个文件的处理结果
type FileResult struct {
	FileName   string        `json:"fileName"`
	InputPath  string        `json:"inputPath"`
	OutputPath string        `json:"outputPath,omitempty"`
	Status     FileStatus    `json:"status"`
	Bytes      int64         `json:"bytes"`
	RowsRead   int           `json:"rowsRead"`
	Intervals  int           `json:"intervals"`
	Buckets    int           `json:"buckets"`
	Dropped    int           `json:"dropped"`
	Warnings   []CellWarning `json:"warnings,omitempty"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`

	Grid *model.CountGrid `json:"-"`
}

// RunSummary 一次运行的汇总
type RunSummary struct {
	RunID    string        `json:"runId,omitempty"`
	Month    string        `json:"month"`
	Files    []*FileResult `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Failed 未成功写出结果的文件数
func (s *RunSummary) Failed() int {
	n := 0
	for _, f := range s.Files {
		if f.Status != FileDone {
			n++
		}
	}
	return n
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/file_start/file_done/file_skipped/file_failed/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Timestamp time.Time   `json:"timestamp"`
}
