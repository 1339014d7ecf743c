package parser

import (
	"fmt"
	"strconv"
	"strings"

	"occupancy/internal/model"
)

// FirstDataColumn 第 1 列是行标签，数据列从第 2 列开始（1-based）
const FirstDataColumn = 2

// ResolutionError 列无法映射到当月合法日期
type ResolutionError struct {
	Column int
	Label  string
	Month  model.ReferenceMonth
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("column %d: day label %q %s for %s", e.Column, e.Label, e.Reason, e.Month)
}

// ReadHeaderLabels 把表头行（excelize GetRows 的一行）转换为 1-based 列标签
func ReadHeaderLabels(row []string) []model.ColumnLabel {
	labels := make([]model.ColumnLabel, 0, len(row))
	for i, v := range row {
		labels = append(labels, model.ColumnLabel{Column: i + 1, Label: v})
	}
	return labels
}

// ResolveColumnDates 根据基准年月和表头日标签构建列 -> 日期映射。
// 空标签的列不映射；非数字或超出当月天数的标签返回 *ResolutionError。
func ResolveColumnDates(month model.ReferenceMonth, labels []model.ColumnLabel) (model.ColumnDateMap, error) {
	days := month.DaysInMonth()
	out := make(model.ColumnDateMap, len(labels))

	for _, l := range labels {
		if l.Column < FirstDataColumn {
			continue
		}
		label := strings.TrimSpace(l.Label)
		if label == "" {
			continue
		}
		day, err := strconv.Atoi(label)
		if err != nil {
			return nil, &ResolutionError{Column: l.Column, Label: l.Label, Month: month, Reason: "is not a day number"}
		}
		if day < 1 || day > days {
			return nil, &ResolutionError{
				Column: l.Column,
				Label:  l.Label,
				Month:  month,
				Reason: fmt.Sprintf("is out of range 1-%d", days),
			}
		}
		out[l.Column] = model.ColumnDate{
			Column: l.Column,
			Day:    day,
			Date:   month.Date(day),
		}
	}

	return out, nil
}
