package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/api/controllers"
	"github.com/hiakki/GhumaggerSnap/api/eventhub"
	"github.com/hiakki/GhumaggerSnap/api/middlewares"
	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/thumbs"
	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/users"
)

// Server is the HTTP API server fronting the media root.
type Server struct {
	port   int
	webOut string

	resolver *sandbox.Resolver
	thumbs   thumbs.Provider
	store    *users.Store
	hub      *eventhub.Hub

	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer wires the HTTP layer over the already-constructed core.
func NewServer(resolver *sandbox.Resolver, provider thumbs.Provider, store *users.Store, hub *eventhub.Hub) *Server {
	cfg := tool.GetCurrentConfig()
	return &Server{
		port:     cfg.Port,
		webOut:   cfg.WebOut,
		resolver: resolver,
		thumbs:   provider,
		store:    store,
		hub:      hub,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(gin.Recovery())

	cfg := tool.GetCurrentConfig()
	secret := []byte(cfg.JWTSecret)
	expire := time.Duration(cfg.TokenExpireHours) * time.Hour

	filesCtrl := controllers.NewFilesController(s.resolver)
	streamCtrl := controllers.NewStreamController(s.resolver, cfg.ChunkSizeBytes)
	thumbCtrl := controllers.NewThumbnailController(s.resolver, s.thumbs)
	archiveCtrl := controllers.NewArchiveController(s.resolver, s.hub)
	authCtrl := controllers.NewAuthController(s.store, secret, expire, s.hub)

	// Login is the only endpoint reachable without a token.
	engine.POST("/api/auth/login", authCtrl.HandleLogin)

	authed := engine.Group("/api", middlewares.TokenAuth(secret, s.store))
	{
		authed.GET("/files", filesCtrl.HandleList)
		authed.GET("/files/preview", streamCtrl.HandlePreview)
		authed.GET("/files/download", streamCtrl.HandleDownload)
		authed.GET("/files/thumbnail", thumbCtrl.HandleThumbnail)
		authed.POST("/files/bulk-download", archiveCtrl.HandleBulkDownload)
		authed.GET("/stats", filesCtrl.HandleStats)
		authed.GET("/qrcode", controllers.HandleShareQRCode)
		authed.GET("/events", eventhub.HandleEventsWS(s.hub))

		authed.GET("/auth/me", authCtrl.HandleMe)
		authed.POST("/auth/change-password", authCtrl.HandleChangePassword)

		admin := authed.Group("/auth/users", middlewares.RequireAdmin)
		{
			admin.GET("", authCtrl.HandleListUsers)
			admin.POST("", authCtrl.HandleCreateUser)
			admin.DELETE("/:id", authCtrl.HandleDeleteUser)
		}
	}

	// Serve the static export of the web UI, when present. HTML routes
	// fall back to index.html so client-side routing works on reload.
	if s.webOut != "" {
		if _, err := os.Stat(filepath.Join(s.webOut, "index.html")); err == nil {
			s.registerWebUI(engine)
			tool.DefaultLogger.Infof("[Server] Serving web UI from %s", s.webOut)
		} else {
			tool.DefaultLogger.Warnf("[Server] Web UI not found at %s, API only", s.webOut)
		}
	}

	return engine
}

func (s *Server) registerWebUI(engine *gin.Engine) {
	fileServer := http.FileServer(http.Dir(s.webOut))
	engine.NoRoute(gin.WrapF(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if ext := filepath.Ext(path); ext != "" && ext != ".html" {
			if _, err := os.Stat(filepath.Join(s.webOut, filepath.FromSlash(path))); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
			http.NotFound(w, r)
			return
		}

		data, err := os.ReadFile(filepath.Join(s.webOut, "index.html"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
}

// Start builds the router and serves until the listener fails.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d", s.port)
	return s.server.ListenAndServe()
}
