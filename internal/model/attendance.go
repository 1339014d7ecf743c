package model

import (
	"fmt"
	"time"
)

// ReferenceMonth 统计基准年月（所有日期都锚定在这个月内）
type ReferenceMonth struct {
	Year  int
	Month time.Month
}

// DaysInMonth 当月天数
func (m ReferenceMonth) DaysInMonth() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date 返回当月第 day 天的零点（无时区语义，统一用 UTC 承载墙钟时间）
func (m ReferenceMonth) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains 判断 t 是否落在当月
func (m ReferenceMonth) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// String YYYY-MM
func (m ReferenceMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// ColumnLabel 表头行中某一列的日期标签（列号从 1 开始）
type ColumnLabel struct {
	Column int
	Label  string
}

// ColumnDate 列对应的日历日期
type ColumnDate struct {
	Column int
	Day    int
	Date   time.Time
}

// ISO YYYY-MM-DD
func (d ColumnDate) ISO() string {
	return d.Date.Format(time.DateOnly)
}

// ColumnDateMap 列号 -> 日期，每个输入文件构建一次
type ColumnDateMap map[int]ColumnDate

// Lookup 查找列对应的日期，未映射的列返回 false
func (m ColumnDateMap) Lookup(column int) (ColumnDate, bool) {
	d, ok := m[column]
	return d, ok
}

// Clock 一天中的时刻（分钟精度）
type Clock struct {
	Hour   int
	Minute int
}

// On 把时刻落到指定日期上
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// String HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// AttendanceInterval 单元格解析出的一段在场区间，入场必填，离场可选
type AttendanceInterval struct {
	Date    time.Time
	Entry   Clock
	Exit    Clock
	HasExit bool
}

// EntryTime 入场时间
func (iv AttendanceInterval) EntryTime() time.Time {
	return iv.Entry.On(iv.Date)
}

// ExitTime 离场时间；没有离场记录时返回零值
func (iv AttendanceInterval) ExitTime() time.Time {
	if !iv.HasExit {
		return time.Time{}
	}
	return iv.Exit.On(iv.Date)
}

// Bucket 小时粒度的时间桶（分钟截断为 0）
type Bucket time.Time

// NewBucket 把任意时间截断到整点
func NewBucket(t time.Time) Bucket {
	return Bucket(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC))
}

// Time 转回 time.Time
func (b Bucket) Time() time.Time {
	return time.Time(b)
}

// Day 日
func (b Bucket) Day() int {
	return time.Time(b).Day()
}

// Hour 时
func (b Bucket) Hour() int {
	return time.Time(b).Hour()
}

// String YYYY-MM-DD HH:00
func (b Bucket) String() string {
	return time.Time(b).Format("2006-01-02 15:00")
}
