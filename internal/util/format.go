package util

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// FormatBytes 人类可读的文件大小
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatDuration 毫秒精度
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// StatusLabel 带颜色的状态标签
func StatusLabel(status string) string {
	label := fmt.Sprintf("[%s]", status)
	switch status {
	case "done":
		return okColor.Sprint(label)
	case "skipped":
		return warnColor.Sprint(label)
	default:
		return errColor.Sprint(label)
	}
}

// Errorf 红色错误信息
func Errorf(format string, args ...interface{}) string {
	return errColor.Sprintf(format, args...)
}
