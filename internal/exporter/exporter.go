package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SheetName 结果工作表名
const SheetName = "Template"

const (
	labelColWidth = 15
	dayColWidth   = 5
)

// NewWorkbook 生成结果工作簿
func NewWorkbook(table *ReportTable) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(SheetName, "A1", &table.Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range table.Rows {
		values := make([]interface{}, 0, len(r.Counts)+1)
		values = append(values, r.Label)
		for _, n := range r.Counts {
			values = append(values, n)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, headerStyle)
	}

	// 列宽
	_ = f.SetColWidth(SheetName, "A", "A", labelColWidth)
	if len(table.Header) > 1 {
		last, _ := excelize.ColumnNumberToName(len(table.Header))
		_ = f.SetColWidth(SheetName, "B", last, dayColWidth)
	}

	return f, nil
}

// WriteWorkbook 写入结果文件，先写临时文件再改名，避免留下半个文件
func WriteWorkbook(table *ReportTable, path string) (int64, error) {
	f, err := NewWorkbook(table)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	buf, err := f.WriteToBuffer()
	var n int64
	if err == nil {
		n, err = buf.WriteTo(out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return n, nil
}

// WriteTo 把结果工作簿写到任意 writer（HTTP 下载用）
func WriteTo(table *ReportTable, w io.Writer) (int64, error) {
	f, err := NewWorkbook(table)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	// excelize 的 File.WriteTo 不返回字节数，先落到缓冲区再写出
	buf, err := f.WriteToBuffer()
	if err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// ResultFileName 输入文件名 + 固定后缀
func ResultFileName(inputName, suffix string) string {
	return filepath.Base(inputName) + suffix
}
