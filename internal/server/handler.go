package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"occupancy/internal/exporter"
	"occupancy/internal/importer"
	"occupancy/internal/model"
	"occupancy/internal/parser"
	"occupancy/internal/store"
)

// maxUploadSize 上传文件大小上限
const maxUploadSize = 32 << 20

// RunReader 台账查询
type RunReader interface {
	ListRuns(limit int) ([]store.Run, error)
	ListRunFiles(runID string) ([]store.FileRecord, error)
	LoadCounts(fileID string) ([]model.Cell, error)
}

// Handler API 处理器
type Handler struct {
	base   importer.Options
	ledger RunReader
	logger *slog.Logger
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	// 上传考勤表，直接返回统计结果
	router.POST("/reports", h.CreateReport)

	// 运行台账
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id/files", h.ListRunFiles)
	router.GET("/files/:id/counts", h.GetCounts)
}

// GetStatus GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"window": h.base.Window.Hours(),
		"ledger": h.ledger != nil,
	})
}

// CreateReport POST /api/reports (multipart: file, month)
func (h *Handler) CreateReport(c *gin.Context) {
	requestID := uuid.New().String()
	log := h.logger.With("request", requestID)

	month, err := parser.ParseReferenceMonth(c.PostForm("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file too large: %s (max %s)", humanize.Bytes(uint64(header.Size)), humanize.Bytes(maxUploadSize)),
		})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer src.Close()

	wb, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", header.Filename, err)})
		return
	}
	defer wb.Close()

	opts := h.base
	opts.Month = month
	analysis, err := importer.Analyze(wb, opts)
	if err != nil {
		var resErr *parser.ResolutionError
		if errors.As(err, &resErr) || errors.Is(err, importer.ErrMissingHeader) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("%s: %v", header.Filename, err)})
			return
		}
		log.Error("analyze upload failed", "file", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", header.Filename, err)})
		return
	}

	var buf bytes.Buffer
	if _, err := exporter.WriteTo(exporter.BuildReportGrid(analysis.Grid, opts.Layout), &buf); err != nil {
		log.Error("render report failed", "file", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成结果失败"})
		return
	}

	log.Info("report generated",
		"file", header.Filename,
		"month", month.String(),
		"size", humanize.Bytes(uint64(buf.Len())),
		"buckets", analysis.Buckets,
		"warnings", len(analysis.Warnings),
	)

	name := exporter.ResultFileName(header.Filename, opts.ResultSuffix)
	c.Header("Content-Disposition", buildContentDisposition(name))
	c.Header("X-Occupancy-Warnings", strconv.Itoa(len(analysis.Warnings)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ListRuns GET /api/runs?limit=
func (h *Handler) ListRuns(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ledger disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.ledger.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

// ListRunFiles GET /api/runs/:id/files
func (h *Handler) ListRunFiles(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ledger disabled"})
		return
	}
	files, err := h.ledger.ListRunFiles(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": files})
}

// GetCounts GET /api/files/:id/counts
func (h *Handler) GetCounts(c *gin.Context) {
	if h.ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ledger disabled"})
		return
	}
	cells, err := h.ledger.LoadCounts(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(cells) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no counts for file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cells})
}

// fallbackDownloadName 文件名含非 ASCII 字符时 filename= 使用的名字
const fallbackDownloadName = "occupancy-report.xlsx"

// buildContentDisposition filename= 只放 ASCII，原名经 filename*=UTF-8'' 百分号编码
func buildContentDisposition(name string) string {
	fallback := name
	if !isPlainASCII(name) {
		fallback = fallbackDownloadName
	}
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", fallback, url.PathEscape(name))
}

func isPlainASCII(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return r < 0x20 || r > 0x7e || r == '"' || r == '\\'
	}) < 0
}
