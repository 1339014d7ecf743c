package calculator

import "occupancy/internal/model"

// Aggregator 把时间桶累加到 CountGrid；每个输入文件一个，不跨文件复用
type Aggregator struct {
	grid *model.CountGrid
}

// NewAggregator 创建聚合器，表格预先填满 0
func NewAggregator(month model.ReferenceMonth, window model.ReportWindow) *Aggregator {
	return &Aggregator{grid: model.NewCountGrid(month, window)}
}

// Add 累加一个桶。窗口外或月份外的桶只计入 Dropped。
func (a *Aggregator) Add(b model.Bucket) bool {
	if !a.grid.Month.Contains(b.Time()) || !a.grid.Add(b.Day(), b.Hour()) {
		a.grid.Dropped++
		return false
	}
	return true
}

// AddAll 批量累加
func (a *Aggregator) AddAll(buckets []model.Bucket) {
	for _, b := range buckets {
		a.Add(b)
	}
}

// Grid 返回结果表格
func (a *Aggregator) Grid() *model.CountGrid {
	return a.grid
}

// Aggregate 一次性聚合全部时间桶
func Aggregate(month model.ReferenceMonth, window model.ReportWindow, buckets []model.Bucket) *model.CountGrid {
	a := NewAggregator(month, window)
	a.AddAll(buckets)
	return a.Grid()
}
