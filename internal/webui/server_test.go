package webui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/config"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
	"github.com/Likhith-Bhargav/talent-link/internal/session"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// jobsBackend serves a 25-posting catalog with backend-style pagination.
func jobsBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"csrfToken":"test-csrf"}`))
	})
	mux.HandleFunc("/api/job-postings/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "nothing" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"count":0,"results":[]}`))
			return
		}

		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}
		size := 10
		start := (page - 1) * size

		var results []string
		for i := start; i < start+size && i < 25; i++ {
			results = append(results, fmt.Sprintf(
				`{"id":%d,"title":"Job %d","company_name":"Acme","job_type":"full_time","location":"Berlin"}`,
				i+1, i+1))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"count":25,"results":[%s]}`, strings.Join(results, ","))
	})
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestUI(t *testing.T, backendURL string) *Server {
	t.Helper()
	cfg := &config.Config{
		BaseURL:        backendURL,
		RequestTimeout: 5 * time.Second,
		WebAddr:        ":0",
		PageSize:       10,
	}
	client, err := api.New(backendURL, cfg.RequestTimeout, zap.NewNop())
	require.NoError(t, err)

	signal := store.NewMemorySignal()
	sess := session.NewService(client, store.NewMemoryStore(), zap.NewNop())
	jobs := resources.NewJobsService(client, signal, zap.NewNop())
	companies := resources.NewCompaniesService(client, zap.NewNop())
	notifications := resources.NewNotificationsService(client, zap.NewNop())

	ui, err := New(cfg, sess, jobs, companies, notifications, signal, zap.NewNop())
	require.NoError(t, err)
	return ui
}

func getDocument(t *testing.T, router http.Handler, target string) (*goquery.Document, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc, rec.Code
}

func TestJobsPageTwoRendersWindowAndCards(t *testing.T) {
	backend := jobsBackend(t)
	router := newTestUI(t, backend.URL).Router()

	doc, code := getDocument(t, router, "/jobs?page=2")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 10, doc.Find(".job-card").Length())
	assert.Contains(t, doc.Find(".result-count").Text(), "25 jobs found")

	var pages []string
	doc.Find(".page-link").Each(func(_ int, sel *goquery.Selection) {
		pages = append(pages, strings.TrimSpace(sel.Text()))
	})
	assert.Equal(t, []string{"1", "2", "3"}, pages)
	assert.Equal(t, "2", strings.TrimSpace(doc.Find(".page-link.active").Text()))
	assert.Equal(t, 0, doc.Find(".page-ellipsis").Length())
}

func TestJobsPageNoResults(t *testing.T) {
	backend := jobsBackend(t)
	router := newTestUI(t, backend.URL).Router()

	doc, code := getDocument(t, router, "/jobs?search=nothing")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 0, doc.Find(".job-card").Length())
	assert.Contains(t, doc.Find(".no-results").Text(), "No jobs match your search.")
}

func TestJobsPageBackendDownRendersRetry(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)
	router := newTestUI(t, backend.URL).Router()

	doc, code := getDocument(t, router, "/jobs")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.NotEmpty(t, strings.TrimSpace(doc.Find(".error-message").Text()))

	retry, ok := doc.Find(".retry-link").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/jobs", retry)
}

func TestPaginationLinksKeepFilters(t *testing.T) {
	backend := jobsBackend(t)
	router := newTestUI(t, backend.URL).Router()

	doc, code := getDocument(t, router, "/jobs?search=go&page=2")
	require.Equal(t, http.StatusOK, code)

	href, ok := doc.Find(".page-link").First().Attr("href")
	require.True(t, ok)
	u, err := url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, "go", u.Query().Get("search"))
	assert.Equal(t, "1", u.Query().Get("page"))
}

func TestLoginFailureRendersInlineMessage(t *testing.T) {
	backend := jobsBackend(t)
	router := newTestUI(t, backend.URL).Router()

	form := url.Values{}
	form.Set("username", "ada")
	form.Set("password", "wrong")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Unable to log in with provided credentials.",
		strings.TrimSpace(doc.Find(".form-error").Text()))
}

func TestUnauthenticatedApplicationsRedirectsToLogin(t *testing.T) {
	backend := jobsBackend(t)
	router := newTestUI(t, backend.URL).Router()

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
