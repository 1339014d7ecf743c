package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"occupancy/internal/model"
)

var (
	// ErrInvalidClock 匹配到 HH:MM 形状但不是合法的 24 小时时刻（如 25:99）
	ErrInvalidClock = errors.New("invalid clock value")
	// ErrTooManyTimes 严格模式下单元格里出现两个以上时刻
	ErrTooManyTimes = errors.New("more than two times in cell")
)

var reClock = regexp.MustCompile(`\b\d{2}:\d{2}\b`)

// ExtractTimes 按出现顺序提取文本中所有 HH:MM 子串，不做任何语义解释
func ExtractTimes(text string) []string {
	return reClock.FindAllString(text, -1)
}

// ParseClock 把 HH:MM 解析为时刻
func ParseClock(s string) (model.Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return model.Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return model.Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return model.Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h > 23 || m > 59 {
		return model.Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return model.Clock{Hour: h, Minute: m}, nil
}

// SplitEntryExit 按位置解释匹配结果：第一个为入场，第二个为离场，其余忽略。
// strict 为 true 时，超过两个时刻视为格式错误。
func SplitEntryExit(matches []string, strict bool) (entry, exit string, err error) {
	if strict && len(matches) > 2 {
		return "", "", fmt.Errorf("%w: %d found", ErrTooManyTimes, len(matches))
	}
	if len(matches) > 0 {
		entry = matches[0]
	}
	if len(matches) > 1 {
		exit = matches[1]
	}
	return entry, exit, nil
}

// ParseInterval 从单元格文本构建在场区间。
// 没有任何时刻时返回 ok=false 且 err=nil（视为无数据）。
func ParseInterval(text string, date model.ColumnDate, strict bool) (iv model.AttendanceInterval, ok bool, err error) {
	matches := ExtractTimes(text)
	if len(matches) == 0 {
		return iv, false, nil
	}

	entryText, exitText, err := SplitEntryExit(matches, strict)
	if err != nil {
		return iv, false, err
	}

	entry, err := ParseClock(entryText)
	if err != nil {
		return iv, false, err
	}
	iv = model.AttendanceInterval{Date: date.Date, Entry: entry}

	if exitText != "" {
		exit, err := ParseClock(exitText)
		if err != nil {
			return iv, false, err
		}
		iv.Exit = exit
		iv.HasExit = true
	}
	return iv, true, nil
}
