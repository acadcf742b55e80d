// Package webui serves the local web front end for the TalentLink client:
// job listings, company directory and the sign-in flow, rendered
// server-side from the same controllers the CLI uses.
package webui

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/pprof"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Likhith-Bhargav/talent-link/internal/config"
	"github.com/Likhith-Bhargav/talent-link/internal/controller"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/observability/metrics"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
	"github.com/Likhith-Bhargav/talent-link/internal/session"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
	"github.com/Likhith-Bhargav/talent-link/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// detailCacheTTL caps how long a job detail page may be served without a
// refetch.
const detailCacheTTL = time.Minute

// Server holds the web UI dependencies.
type Server struct {
	cfg           *config.Config
	logger        *zap.Logger
	session       session.Service
	jobs          resources.JobsService
	companies     resources.CompaniesService
	notifications resources.NotificationsService
	signal        store.ListingsSignal
	cache         *gocache.Cache
	tmpl          *template.Template
}

// New creates the web UI server.
func New(cfg *config.Config, sess session.Service, jobs resources.JobsService,
	companies resources.CompaniesService, notifications resources.NotificationsService,
	signal store.ListingsSignal, logger *zap.Logger) (*Server, error) {

	tmpl, err := template.New("webui").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:           cfg,
		logger:        logger,
		session:       sess,
		jobs:          jobs,
		companies:     companies,
		notifications: notifications,
		signal:        signal,
		cache:         gocache.New(detailCacheTTL, 5*time.Minute),
		tmpl:          tmpl,
	}, nil
}

// Router configures and returns the Gin router with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(ginzap.GinzapWithConfig(s.logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
	}))
	r.Use(ginzap.RecoveryWithZap(s.logger, true))
	r.Use(gin.Recovery())

	if s.cfg.Debug {
		pprof.Register(r)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/jobs")
	})
	r.GET("/jobs", s.handleJobs)
	r.GET("/jobs/:id", s.handleJobDetail)
	r.POST("/jobs/:id/save", s.handleToggleSave)
	r.GET("/companies", s.handleCompanies)
	r.GET("/applications", s.handleApplications)
	r.GET("/notifications", s.handleNotifications)
	r.GET("/login", s.handleLoginForm)
	r.POST("/login", s.handleLogin)
	r.POST("/logout", s.handleLogout)

	return r
}

// HTTPServer wraps the router in an http.Server bound to the configured
// address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.WebAddr,
		Handler:      s.Router(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// zapContextFunc returns the Zap context function for request logging.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}
		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		return fields
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"jobTypeLabel":    view.JobTypeLabel,
		"statusLabel":     view.StatusLabel,
		"salaryLabel":     view.SalaryLabel,
		"deadlineLabel":   view.DeadlineLabel,
		"companyInitial":  view.CompanyInitial,
		"locationLabel":   view.LocationLabel,
		"experienceLabel": view.ExperienceLabel,
		"postedLabel": func(t time.Time) string {
			return view.PostedLabel(t, time.Now())
		},
		"window": controller.PaginationWindow,
		"joinSkills": func(skills []string) string {
			return strings.Join(skills, ", ")
		},
	}
}

// page is the shared template payload.
type page struct {
	Title string
	Auth  models.AuthState
	Query string
	Data  any
	Error string
	Retry string
}

func (s *Server) render(c *gin.Context, status int, name string, p page) {
	start := time.Now()
	p.Auth = s.session.State()
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(c.Writer, name, p); err != nil {
		s.logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
	metrics.Get().PageRenderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// renderError terminates a handler in the error-with-retry page so no
// request is ever left in a loading state.
func (s *Server) renderError(c *gin.Context, message, retryPath string) {
	if message == "" {
		message = "Something went wrong"
	}
	s.render(c, http.StatusBadGateway, "error.html", page{
		Title: "Error",
		Error: message,
		Retry: retryPath,
	})
}
