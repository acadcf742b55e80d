package webui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/controller"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/session"
)

// listPage is the payload for paginated listing templates. HrefBase is the
// page path plus every non-page query parameter, ready for a page number
// to be appended.
type listPage[T any] struct {
	Snapshot controller.Snapshot[T]
	Filters  models.JobFilters
	HrefBase string
}

// hrefBase rebuilds the link prefix for pagination, keeping the current
// filters and dropping the page parameter.
func hrefBase(path string, query url.Values) string {
	query.Del("page")
	if len(query) == 0 {
		return path + "?page="
	}
	return path + "?" + query.Encode() + "&page="
}

// runController drives a freshly built controller through one load cycle
// and returns the terminal snapshot. A page beyond one is requested after
// Start, which supersedes the initial fetch.
func runController[T, F any](ctx context.Context, ctrl *controller.ListController[T, F], pageNum int) controller.Snapshot[T] {
	ch, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	defer ctrl.Stop()

	if err := ctrl.Start(ctx); err != nil {
		return ctrl.Snapshot()
	}
	if pageNum > 1 {
		if err := ctrl.SetPage(pageNum); err != nil {
			return ctrl.Snapshot()
		}
	}

	want := pageNum
	if want < 1 {
		want = 1
	}
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return ctrl.Snapshot()
			}
			if snap.State == controller.StateError {
				return snap
			}
			if snap.State == controller.StateRendered && snap.Page == want {
				return snap
			}
		case <-ctx.Done():
			return ctrl.Snapshot()
		}
	}
}

func (s *Server) handleJobs(c *gin.Context) {
	var filters models.JobFilters
	filters.FromValues(c.Request.URL.Query())
	pageNum := filters.Page

	ctrl := controller.NewJobsController(s.jobs, filters, s.cfg.PageSize, s.logger)
	snap := runController(c.Request.Context(), ctrl, pageNum)

	if snap.State == controller.StateError {
		s.renderError(c, snap.Message, c.Request.URL.RequestURI())
		return
	}
	s.render(c, http.StatusOK, "jobs.html", page{
		Title: "Jobs",
		Query: filters.Search,
		Data: listPage[models.JobPosting]{
			Snapshot: snap,
			Filters:  filters,
			HrefBase: hrefBase("/jobs", c.Request.URL.Query()),
		},
	})
}

func (s *Server) handleJobDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, "Job not found", "/jobs")
		return
	}

	key := fmt.Sprintf("job:%d", id)
	if cached, ok := s.cache.Get(key); ok {
		if job, ok := cached.(*models.JobPosting); ok {
			s.renderJob(c, job)
			return
		}
	}

	job, err := s.jobs.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, "", c.Request.URL.RequestURI())
		return
	}
	s.cache.SetDefault(key, job)
	s.renderJob(c, job)
}

func (s *Server) renderJob(c *gin.Context, job *models.JobPosting) {
	s.render(c, http.StatusOK, "job.html", page{
		Title: job.Title,
		Data: gin.H{
			"Job":   job,
			"Saved": s.jobs.IsSaved(job.ID),
		},
	})
}

func (s *Server) handleToggleSave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, "Job not found", "/jobs")
		return
	}
	if !s.session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if _, err := s.jobs.ToggleSave(c.Request.Context(), id); err != nil {
		s.logger.Warn("toggle save failed", zap.Int64("job_id", id), zap.Error(err))
	}
	s.cache.Delete(fmt.Sprintf("job:%d", id))
	c.Redirect(http.StatusFound, fmt.Sprintf("/jobs/%d", id))
}

func (s *Server) handleCompanies(c *gin.Context) {
	filters := models.CompanyFilters{
		Search:   c.Query("search"),
		Industry: c.Query("industry"),
		Size:     c.Query("company_size"),
	}
	pageNum, _ := strconv.Atoi(c.Query("page"))

	ctrl := controller.NewCompaniesController(s.companies, filters, s.cfg.PageSize, s.logger)
	snap := runController(c.Request.Context(), ctrl, pageNum)

	if snap.State == controller.StateError {
		s.renderError(c, snap.Message, c.Request.URL.RequestURI())
		return
	}
	s.render(c, http.StatusOK, "companies.html", page{
		Title: "Companies",
		Query: filters.Search,
		Data: listPage[models.Company]{
			Snapshot: snap,
			HrefBase: hrefBase("/companies", c.Request.URL.Query()),
		},
	})
}

func (s *Server) handleApplications(c *gin.Context) {
	if !s.session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	pageNum, _ := strconv.Atoi(c.Query("page"))

	ctrl := controller.NewApplicationsController(s.jobs, s.cfg.PageSize, s.logger)
	snap := runController(c.Request.Context(), ctrl, pageNum)

	if snap.State == controller.StateError {
		s.renderError(c, snap.Message, "/applications")
		return
	}
	s.render(c, http.StatusOK, "applications.html", page{
		Title: "My Applications",
		Data: listPage[models.Application]{
			Snapshot: snap,
			HrefBase: hrefBase("/applications", c.Request.URL.Query()),
		},
	})
}

func (s *Server) handleNotifications(c *gin.Context) {
	if !s.session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	items, err := s.notifications.List(c.Request.Context())
	if err != nil {
		s.renderError(c, "", "/notifications")
		return
	}
	s.render(c, http.StatusOK, "notifications.html", page{
		Title: "Notifications",
		Data:  items,
	})
}

func (s *Server) handleLoginForm(c *gin.Context) {
	if s.session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/jobs")
		return
	}
	s.render(c, http.StatusOK, "login.html", page{Title: "Sign In"})
}

func (s *Server) handleLogin(c *gin.Context) {
	creds := session.Credentials{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	result := s.session.Login(c.Request.Context(), creds)
	if !result.Success {
		s.render(c, http.StatusUnauthorized, "login.html", page{
			Title: "Sign In",
			Error: result.Error,
		})
		return
	}
	c.Redirect(http.StatusFound, "/jobs")
}

func (s *Server) handleLogout(c *gin.Context) {
	s.session.Logout(c.Request.Context())
	c.Redirect(http.StatusFound, "/jobs")
}
