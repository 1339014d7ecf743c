package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"occupancy/internal/model"
)

// Run 一次批处理运行
type Run struct {
	ID          string     `json:"id"`
	Month       string     `json:"month"`
	Status      string     `json:"status"`
	TotalFiles  int        `json:"totalFiles"`
	FailedFiles int        `json:"failedFiles"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// FileRecord 运行中单个文件的处理结果
type FileRecord struct {
	ID           string    `json:"id"`
	RunID        string    `json:"runId"`
	FileName     string    `json:"fileName"`
	OutputPath   string    `json:"outputPath"`
	Status       string    `json:"status"`
	RowsRead     int       `json:"rowsRead"`
	Intervals    int       `json:"intervals"`
	Buckets      int       `json:"buckets"`
	Dropped      int       `json:"dropped"`
	Warnings     int       `json:"warnings"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateRun 创建运行记录，返回 run id
func (s *Store) CreateRun(month string) (string, error) {
	id := uuid.New().String()
	if _, err := s.db.Exec(`INSERT INTO runs (id, month, status) VALUES (?, ?, 'running')`, id, month); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun 完成运行
func (s *Store) FinishRun(id, status string, totalFiles, failedFiles int) error {
	_, err := s.db.Exec(`
		UPDATE runs SET
			status = ?,
			total_files = ?,
			failed_files = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, totalFiles, failedFiles, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordFile 记录文件结果，返回 file id
func (s *Store) RecordFile(runID string, rec FileRecord) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO run_files (id, run_id, file_name, output_path, status, rows_read, intervals, buckets, dropped, warnings, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, runID, rec.FileName, rec.OutputPath, rec.Status, rec.RowsRead, rec.Intervals, rec.Buckets, rec.Dropped, rec.Warnings, rec.ErrorMessage)
	if err != nil {
		return "", fmt.Errorf("failed to record file %s: %w", rec.FileName, err)
	}
	return id, nil
}

// SaveCounts 保存文件的在场人数表（全部格子，包括 0）
func (s *Store) SaveCounts(fileID string, cells []model.Cell) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO occupancy_counts (file_id, day, hour, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare counts insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cells {
		if _, err := stmt.Exec(fileID, c.Day, c.Hour, c.Count); err != nil {
			return fmt.Errorf("failed to save count (%d,%d): %w", c.Day, c.Hour, err)
		}
	}
	return tx.Commit()
}

// ListRuns 最近的运行（按开始时间倒序）
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, month, status, total_files, failed_files, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs failed: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var completed sql.NullTime
		if err := rows.Scan(&r.ID, &r.Month, &r.Status, &r.TotalFiles, &r.FailedFiles, &r.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan run failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs failed: %w", err)
	}
	return out, nil
}

// ListRunFiles 运行下的文件记录
func (s *Store) ListRunFiles(runID string) ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, file_name, output_path, status, rows_read, intervals, buckets, dropped, warnings, error_message, created_at
		FROM run_files
		WHERE run_id = ?
		ORDER BY file_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files failed: %w", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.RunID, &f.FileName, &f.OutputPath, &f.Status, &f.RowsRead, &f.Intervals, &f.Buckets, &f.Dropped, &f.Warnings, &f.ErrorMessage, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run file failed: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files failed: %w", err)
	}
	return out, nil
}

// LoadCounts 读取文件的在场人数表
func (s *Store) LoadCounts(fileID string) ([]model.Cell, error) {
	rows, err := s.db.Query(`
		SELECT day, hour, count FROM occupancy_counts
		WHERE file_id = ?
		ORDER BY day, hour
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query counts failed: %w", err)
	}
	defer rows.Close()

	var out []model.Cell
	for rows.Next() {
		var c model.Cell
		if err := rows.Scan(&c.Day, &c.Hour, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
