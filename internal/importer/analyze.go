package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"occupancy/internal/calculator"
	"occupancy/internal/parser"
)

// pickSheet 优先使用配置的工作表名，不存在时退回第一个工作表
func pickSheet(wb *excelize.File, want string) (string, error) {
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	return sheets[0], nil
}

// Analyze 读取考勤工作表并统计每天每小时的在场人数。
// 表头行解析失败返回 *parser.ResolutionError 或 ErrMissingHeader；单元格问题只记警告。
func Analyze(wb *excelize.File, opts Options) (*Analysis, error) {
	sheet, err := pickSheet(wb, opts.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	headerRow := opts.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	if len(rows) < headerRow {
		return nil, fmt.Errorf("%w: sheet %s has %d rows, header row is %d", ErrMissingHeader, sheet, len(rows), headerRow)
	}

	dates, err := parser.ResolveColumnDates(opts.Month, parser.ReadHeaderLabels(rows[headerRow-1]))
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: row %d of sheet %s has no day labels", ErrMissingHeader, headerRow, sheet)
	}

	agg := calculator.NewAggregator(opts.Month, opts.Window)
	result := &Analysis{Sheet: sheet}

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]
		rowNo := i + 1
		if isBlankRow(row) {
			continue
		}
		result.RowsRead++

		for j, raw := range row {
			col := j + 1
			if col < parser.FirstDataColumn {
				continue
			}
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}

			date, ok := dates.Lookup(col)
			if !ok {
				if len(parser.ExtractTimes(text)) > 0 {
					result.Warnings = append(result.Warnings, CellWarning{
						Row: rowNo, Column: col, Text: text, Reason: "column has no day label",
					})
				}
				continue
			}

			iv, ok, err := parser.ParseInterval(text, date, opts.StrictTimes)
			if err != nil {
				result.Warnings = append(result.Warnings, CellWarning{
					Row: rowNo, Column: col, Text: text, Reason: err.Error(),
				})
				continue
			}
			if !ok {
				continue
			}

			buckets := calculator.ExpandInterval(iv)
			agg.AddAll(buckets)
			result.Intervals++
			result.Buckets += len(buckets)
		}
	}

	result.Grid = agg.Grid()
	return result, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
