package model

import (
	"errors"
	"fmt"
)

// ReportWindow 报表固定统计的小时列表（与观测数据无关）
type ReportWindow struct {
	hours []int
}

// DefaultReportWindow 09:00 ~ 19:00，每小时一个采样点
func DefaultReportWindow() ReportWindow {
	w, _ := NewReportWindow(9, 19)
	return w
}

// NewReportWindow 创建 [first, last] 闭区间的小时窗口
func NewReportWindow(first, last int) (ReportWindow, error) {
	if first < 0 || last > 23 {
		return ReportWindow{}, fmt.Errorf("report window %d..%d out of range 0..23", first, last)
	}
	if first > last {
		return ReportWindow{}, errors.New("report window is empty")
	}
	hours := make([]int, 0, last-first+1)
	for h := first; h <= last; h++ {
		hours = append(hours, h)
	}
	return ReportWindow{hours: hours}, nil
}

// Hours 窗口内的小时（升序，返回副本）
func (w ReportWindow) Hours() []int {
	out := make([]int, len(w.hours))
	copy(out, w.hours)
	return out
}

// Len 窗口大小
func (w ReportWindow) Len() int {
	return len(w.hours)
}

// Index 小时在窗口中的位置，不在窗口内返回 -1
func (w ReportWindow) Index(hour int) int {
	if len(w.hours) == 0 || hour < w.hours[0] || hour > w.hours[len(w.hours)-1] {
		return -1
	}
	return hour - w.hours[0]
}

// CountGrid 日 × 小时 的在场人数表
type CountGrid struct {
	Month  ReferenceMonth
	Window ReportWindow

	// cells[day-1][hourIndex]
	cells [][]int

	// Dropped 落在窗口或月份之外、未计入表格的时间桶数量
	Dropped int
}

// NewCountGrid 创建全零表格：当月每一天 × 窗口内每个小时
func NewCountGrid(month ReferenceMonth, window ReportWindow) *CountGrid {
	days := month.DaysInMonth()
	cells := make([][]int, days)
	for i := range cells {
		cells[i] = make([]int, window.Len())
	}
	return &CountGrid{
		Month:  month,
		Window: window,
		cells:  cells,
	}
}

// Days 当月天数
func (g *CountGrid) Days() int {
	return len(g.cells)
}

// Get 读取 (day, hour) 的计数；坐标不在表内返回 false
func (g *CountGrid) Get(day, hour int) (int, bool) {
	idx := g.Window.Index(hour)
	if day < 1 || day > len(g.cells) || idx < 0 {
		return 0, false
	}
	return g.cells[day-1][idx], true
}

// Add 计数加一；坐标不在表内返回 false
func (g *CountGrid) Add(day, hour int) bool {
	idx := g.Window.Index(hour)
	if day < 1 || day > len(g.cells) || idx < 0 {
		return false
	}
	g.cells[day-1][idx]++
	return true
}

// Total 所有格子计数之和
func (g *CountGrid) Total() int {
	total := 0
	for _, row := range g.cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Cell 一个格子（用于持久化/接口输出）
type Cell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Cells 按日、小时顺序展开全部格子（包括 0）
func (g *CountGrid) Cells() []Cell {
	hours := g.Window.Hours()
	out := make([]Cell, 0, len(g.cells)*len(hours))
	for d, row := range g.cells {
		for i, n := range row {
			out = append(out, Cell{Day: d + 1, Hour: hours[i], Count: n})
		}
	}
	return out
}
