package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"arbodash/app"
	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/auth"
	"arbodash/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/guregu/null.v3"
)

// Options holds the HTTP-level settings of the dashboard
type Options struct {
	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool
}

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	dashboard *app.DashboardService
	sessions  *auth.SessionManager
	templates *template.Template
	home      template.HTML
	opts      Options
	logger    *internal.Logger
}

// NewServer builds the router, templates and home page
func NewServer(dashboard *app.DashboardService, sessions *auth.SessionManager, opts Options, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if opts.CookieName == "" {
		opts.CookieName = "arbodash_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}

	templates, err := template.New("").Funcs(funcMap()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	homeSource, err := embeddedFiles.ReadFile("content/home.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read home page: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		sessions:  sessions,
		templates: templates,
		home:      renderMarkdown(homeSource),
		opts:      opts,
		logger:    logger.With("HTTP"),
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until the listener fails
func (s *Server) Start(addr string) error {
	s.logger.Info("dashboard listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

func (s *Server) setupRoutes() {
	session := middleware.Session(s.sessions, s.opts.CookieName, s.opts.SessionTTL, s.opts.SecureCookie, s.logger)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := s.router.Group("/", session)
	public.GET("/login", s.handleLoginPage)
	public.POST("/login", s.handleLogin)
	public.POST("/logout", s.handleLogout)

	protected := s.router.Group("/", session, middleware.RequireAuth())
	protected.GET("/", s.handleIndex)
	protected.GET("/views/:name", s.handleViewPage)

	api := protected.Group("/api")
	api.GET("/options", s.handleOptions)
	api.GET("/summary", s.handleSummary)
	api.GET("/views", s.handleListViews)
	api.GET("/views/:name", s.handleView)
	api.GET("/synthesis", s.handleSynthesis)
	api.GET("/models/its", s.handleITS)
	api.GET("/models/did", s.handleDiD)

	export := protected.Group("/export")
	export.GET("/"+app.FilteredCSVName, s.handleExportCSV)
	export.GET("/"+app.SynthesisXLSName, s.handleExportSynthesis)
}

func renderMarkdown(src []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(src, p, renderer))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"add":     func(a, b int) int { return a + b },
		"upper":   strings.ToUpper,
		"disease": notification.DiseaseName,
		"pct": func(v null.Float) string {
			if !v.Valid {
				return "—"
			}
			return fmt.Sprintf("%.1f%%", v.Float64)
		},
		"num": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"optnum": func(v null.Float) string {
			if !v.Valid {
				return "—"
			}
			return fmt.Sprintf("%.2f", v.Float64)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}
}
