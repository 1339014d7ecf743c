package exporter

import (
	"fmt"

	"occupancy/internal/model"
)

// Layout 报表版式
type Layout struct {
	// DayLabel 日列表头格式，例如 "%d일"
	DayLabel string
	// HourLabel 小时行标签格式，参数为 HH:00
	HourLabel string
}

// DefaultLayout 默认版式：表头 "5일"，行标签 "09:00 ~ "
func DefaultLayout() Layout {
	return Layout{
		DayLabel:  "%d일",
		HourLabel: "%s ~ ",
	}
}

// ReportTable 待写入的二维表：Header 为首行，Rows 每行首格为小时标签
type ReportTable struct {
	Header []string
	Rows   []ReportRow
}

// ReportRow 一个小时对应的一行
type ReportRow struct {
	Label  string
	Hour   int
	Counts []int
}

// BuildReportGrid 把 CountGrid 排成 “小时 × 日” 的报表
func BuildReportGrid(grid *model.CountGrid, layout Layout) *ReportTable {
	if layout.DayLabel == "" {
		layout.DayLabel = DefaultLayout().DayLabel
	}
	if layout.HourLabel == "" {
		layout.HourLabel = DefaultLayout().HourLabel
	}

	days := grid.Days()
	header := make([]string, 0, days+1)
	header = append(header, "")
	for d := 1; d <= days; d++ {
		header = append(header, fmt.Sprintf(layout.DayLabel, d))
	}

	hours := grid.Window.Hours()
	rows := make([]ReportRow, 0, len(hours))
	for _, h := range hours {
		counts := make([]int, days)
		for d := 1; d <= days; d++ {
			counts[d-1], _ = grid.Get(d, h)
		}
		rows = append(rows, ReportRow{
			Label:  fmt.Sprintf(layout.HourLabel, fmt.Sprintf("%02d:00", h)),
			Hour:   h,
			Counts: counts,
		})
	}

	return &ReportTable{Header: header, Rows: rows}
}
