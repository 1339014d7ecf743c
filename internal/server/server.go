package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"occupancy/internal/config"
	"occupancy/internal/importer"
	"occupancy/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	h      *Handler
}

// NewServer 创建服务器；st 为 nil 时台账相关接口返回 404
func NewServer(cfg *config.AppConfig, base importer.Options, st *store.Store, logger *slog.Logger) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{base: base, logger: logger}
	if st != nil {
		h.ledger = st
	}

	s := &Server{
		router: gin.New(),
		h:      h,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.h.RegisterRoutes(api)
	}
}

// Handler 返回 http.Handler（测试用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
