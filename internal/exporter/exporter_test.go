package exporter_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"occupancy/internal/exporter"
	"occupancy/internal/model"
)

func sampleGrid(t *testing.T) *model.CountGrid {
	t.Helper()
	month := model.ReferenceMonth{Year: 2024, Month: time.April}
	grid := model.NewCountGrid(month, model.DefaultReportWindow())
	grid.Add(5, 9)
	grid.Add(5, 9)
	grid.Add(30, 19)
	return grid
}

func TestBuildReportGrid(t *testing.T) {
	table := exporter.BuildReportGrid(sampleGrid(t), exporter.DefaultLayout())

	if got, want := len(table.Header), 31; got != want {
		t.Fatalf("header len=%d, want %d", got, want)
	}
	if table.Header[0] != "" || table.Header[1] != "1일" || table.Header[30] != "30일" {
		t.Fatalf("header=%v", table.Header)
	}
	if got, want := len(table.Rows), 11; got != want {
		t.Fatalf("rows=%d, want %d", got, want)
	}
	if table.Rows[0].Label != "09:00 ~ " || table.Rows[10].Label != "19:00 ~ " {
		t.Fatalf("labels=%q..%q", table.Rows[0].Label, table.Rows[10].Label)
	}
	if got := table.Rows[0].Counts[4]; got != 2 {
		t.Fatalf("09:00 day 5=%d, want 2", got)
	}
	if got := table.Rows[10].Counts[29]; got != 1 {
		t.Fatalf("19:00 day 30=%d, want 1", got)
	}
}

func TestWriteWorkbook(t *testing.T) {
	table := exporter.BuildReportGrid(sampleGrid(t), exporter.Layout{DayLabel: "D%d"})
	path := filepath.Join(t.TempDir(), "out", exporter.ResultFileName("/in/team.xlsx", "-result.xlsx"))

	n, err := exporter.WriteWorkbook(table, path)
	if err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	if n <= 0 {
		t.Fatalf("written=%d", n)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if n != st.Size() {
		t.Fatalf("written=%d, want file size %d", n, st.Size())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}
	if filepath.Base(path) != "team.xlsx-result.xlsx" {
		t.Fatalf("name=%s", filepath.Base(path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(exporter.SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("rows=%d, want 12", len(rows))
	}
	if rows[0][1] != "D1" {
		t.Fatalf("B1=%q", rows[0][1])
	}
	if rows[1][0] != "09:00 ~ " || rows[1][5] != "2" {
		t.Fatalf("row 2=%v", rows[1])
	}
	if rows[2][5] != "0" {
		t.Fatalf("F3=%q, want 0", rows[2][5])
	}
}

func TestWriteTo(t *testing.T) {
	table := exporter.BuildReportGrid(sampleGrid(t), exporter.DefaultLayout())

	var buf bytes.Buffer
	n, err := exporter.WriteTo(table, &buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n <= 0 || n != int64(buf.Len()) {
		t.Fatalf("written=%d, buffer=%d", n, buf.Len())
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue(exporter.SheetName, "F2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "2" {
		t.Fatalf("F2=%q, want 2", v)
	}
}
