package server

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/api"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/cache"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/config"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/service"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/source"
	"github.com/aleksandrukbogdan/pm-dashboard-sub000/internal/store"
)

// Server is the HTTP server owning the store, cache and service lifecycle.
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
}

// NewServer wires the full application.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "pm-dashboard.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	workbooks := source.NewExcelSource(filepath.Join(dataDir, "uploads"))
	svc := service.New(workbooks, cfg, sqliteStore, cache.New())
	handler := api.NewHandler(svc, workbooks)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    handler,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the server's resources.
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore exposes the store, used by tests.
func (s *Server) GetStore() *store.Store {
	return s.store
}
