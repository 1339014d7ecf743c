package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"occupancy/internal/model"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Report ReportConfig `toml:"report"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" env:"OCCUPANCY_PORT"`
	DevMode bool `toml:"dev_mode" env:"OCCUPANCY_DEV_MODE"`
}

// DataConfig 目录配置（相对工作目录）
type DataConfig struct {
	InputDir  string `toml:"input_dir" env:"OCCUPANCY_INPUT_DIR"`
	OutputDir string `toml:"output_dir" env:"OCCUPANCY_OUTPUT_DIR"`
	DataDir   string `toml:"data_dir" env:"OCCUPANCY_DATA_DIR"`
	Ledger    bool   `toml:"ledger" env:"OCCUPANCY_LEDGER"`
}

// ReportConfig 报表配置
type ReportConfig struct {
	// Month 预设的基准年月（YYYY-MM），为空时交互输入
	Month        string `toml:"month" env:"OCCUPANCY_MONTH"`
	FirstHour    int    `toml:"first_hour"`
	LastHour     int    `toml:"last_hour"`
	Sheet        string `toml:"sheet"`
	HeaderRow    int    `toml:"header_row"`
	ResultSuffix string `toml:"result_suffix"`
	DayLabel     string `toml:"day_label"`
	// StrictTimes 单元格出现两个以上时刻时报告格式错误，而不是只取前两个
	StrictTimes bool `toml:"strict_times" env:"OCCUPANCY_STRICT_TIMES"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			InputDir:  "xlxsFiles",
			OutputDir: "xlxsResults",
			DataDir:   "data",
			Ledger:    false,
		},
		Report: ReportConfig{
			FirstHour:    9,
			LastHour:     19,
			Sheet:        "Sheet1",
			HeaderRow:    3,
			ResultSuffix: "-result.xlsx",
			DayLabel:     "%d일",
		},
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if _, err := c.Window(); err != nil {
		return err
	}
	if c.Report.HeaderRow < 1 {
		return fmt.Errorf("header_row must be >= 1, got %d", c.Report.HeaderRow)
	}
	if c.Data.InputDir == "" || c.Data.OutputDir == "" {
		return errors.New("input_dir and output_dir are required")
	}
	if c.Report.ResultSuffix == "" {
		return errors.New("result_suffix is required")
	}
	return nil
}

// Window 报表小时窗口
func (c *AppConfig) Window() (model.ReportWindow, error) {
	return model.NewReportWindow(c.Report.FirstHour, c.Report.LastHour)
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ConfigPaths config.toml 的查找顺序：可执行文件目录，然后工作目录
func ConfigPaths() []string {
	paths := make([]string, 0, 2)
	if exeDir, err := GetExeDir(); err == nil {
		paths = append(paths, filepath.Join(exeDir, "config.toml"))
	}
	return append(paths, "config.toml")
}

// LoadConfig 加载 config.toml，再用环境变量覆盖
func LoadConfig() (*AppConfig, error) {
	return LoadConfigFrom(ConfigPaths()...)
}

// LoadConfigFrom 从第一个存在的路径加载配置；都不存在时使用默认配置
func LoadConfigFrom(paths ...string) (*AppConfig, error) {
	cfg := DefaultConfig()

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		break
	}

	// 环境变量覆盖
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureDirs 确保输出目录（以及启用台账时的数据目录）存在
func EnsureDirs(cfg *AppConfig) error {
	dirs := []string{cfg.Data.OutputDir}
	if cfg.Data.Ledger {
		dirs = append(dirs, cfg.Data.DataDir)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// LedgerPath SQLite 台账路径
func LedgerPath(cfg *AppConfig) string {
	return filepath.Join(cfg.Data.DataDir, "occupancy.db")
}
