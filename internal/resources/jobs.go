package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/observability/metrics"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// ApplicationsTTL is the freshness window for the "my applications" cache.
const ApplicationsTTL = 5 * time.Minute

const myApplicationsKey = "my_applications"

// Ensure implementation satisfies the interface
var _ JobsService = (*JobsServiceImpl)(nil)

// JobsService wraps the job-postings and job-applications endpoints.
type JobsService interface {
	List(ctx context.Context, filters models.JobFilters) (*models.Page[models.JobPosting], error)
	Get(ctx context.Context, id int64) (*models.JobPosting, error)
	Create(ctx context.Context, input JobInput) (*models.JobPosting, error)
	Update(ctx context.Context, id int64, input JobInput) (*models.JobPosting, error)
	Delete(ctx context.Context, id int64) error
	MyJobs(ctx context.Context) ([]models.JobPosting, error)
	MyCompanyJobs(ctx context.Context) ([]models.JobPosting, error)
	Search(ctx context.Context, query string, filters models.JobFilters) ([]models.JobPosting, error)

	ToggleSave(ctx context.Context, id int64) (bool, error)
	IsSaved(id int64) bool
	SavedJobs(ctx context.Context) ([]models.JobPosting, error)

	Apply(ctx context.Context, jobID int64, input ApplicationInput) (*models.Application, error)
	MyApplications(ctx context.Context) ([]models.Application, error)
	Application(ctx context.Context, id int64) (*models.Application, error)
	Applications(ctx context.Context, jobID int64) ([]models.Application, error)
	Applicants(ctx context.Context, jobID int64) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	InvalidateApplications()

	ParseResume(ctx context.Context, resume io.Reader, filename string) (*ResumeParse, error)
}

// JobInput is the create/update payload for a posting.
type JobInput struct {
	Title               string         `json:"title,omitempty"`
	Description         string         `json:"description,omitempty"`
	Requirements        string         `json:"requirements,omitempty"`
	Location            string         `json:"location,omitempty"`
	JobType             models.JobType `json:"job_type,omitempty"`
	Salary              string         `json:"salary,omitempty"`
	ApplicationDeadline string         `json:"application_deadline,omitempty"`
	Skills              []string       `json:"skills,omitempty"`
	IsActive            *bool          `json:"is_active,omitempty"`
}

// ApplicationInput carries the multipart apply payload: the resume file
// plus plain form fields.
type ApplicationInput struct {
	CoverLetter    string
	Skills         string
	Resume         io.Reader
	ResumeFilename string
}

// ResumeParse is the backend resume parser's extraction result.
type ResumeParse struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Skills []string `json:"skills"`
	Text   string   `json:"text"`
}

type JobsServiceImpl struct {
	client  *api.Client
	logger  *zap.Logger
	metrics *metrics.AppMetrics
	signal  store.ListingsSignal

	appsCache *store.TTLCache[[]models.Application]

	mu    sync.Mutex
	saved map[int64]bool
}

// NewJobsService creates the jobs resource module. signal may not be nil;
// use store.NewMemorySignal for in-process setups.
func NewJobsService(client *api.Client, signal store.ListingsSignal, logger *zap.Logger) *JobsServiceImpl {
	return &JobsServiceImpl{
		client:    client,
		logger:    logger,
		metrics:   metrics.Get(),
		signal:    signal,
		appsCache: store.NewTTLCache[[]models.Application](ApplicationsTTL),
		saved:     make(map[int64]bool),
	}
}

// ApplicationsCache exposes the cache for clock injection in tests.
func (s *JobsServiceImpl) ApplicationsCache() *store.TTLCache[[]models.Application] {
	return s.appsCache
}

func (s *JobsServiceImpl) List(ctx context.Context, filters models.JobFilters) (*models.Page[models.JobPosting], error) {
	var page models.Page[models.JobPosting]
	if err := s.client.Get(ctx, "/job-postings/", filters.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *JobsServiceImpl) Get(ctx context.Context, id int64) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.client.Get(ctx, fmt.Sprintf("/job-postings/%d/", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobsServiceImpl) Create(ctx context.Context, input JobInput) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.client.Post(ctx, "/job-postings/", input, &job); err != nil {
		return nil, err
	}
	s.listingsChanged()
	return &job, nil
}

func (s *JobsServiceImpl) Update(ctx context.Context, id int64, input JobInput) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.client.Patch(ctx, fmt.Sprintf("/job-postings/%d/", id), input, &job); err != nil {
		return nil, err
	}
	s.listingsChanged()
	return &job, nil
}

func (s *JobsServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/job-postings/%d/", id), nil); err != nil {
		return err
	}
	s.listingsChanged()
	return nil
}

func (s *JobsServiceImpl) MyJobs(ctx context.Context) ([]models.JobPosting, error) {
	return s.jobList(ctx, "/job-postings/my-jobs/")
}

func (s *JobsServiceImpl) MyCompanyJobs(ctx context.Context) ([]models.JobPosting, error) {
	return s.jobList(ctx, "/job-postings/my-company-jobs/")
}

func (s *JobsServiceImpl) SavedJobs(ctx context.Context) ([]models.JobPosting, error) {
	jobs, err := s.jobList(ctx, "/job-postings/saved/")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for _, job := range jobs {
		s.saved[job.ID] = true
	}
	s.mu.Unlock()
	return jobs, nil
}

func (s *JobsServiceImpl) jobList(ctx context.Context, endpoint string) ([]models.JobPosting, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	jobs, _, err := decodeList[models.JobPosting](raw)
	return jobs, err
}

func (s *JobsServiceImpl) Search(ctx context.Context, query string, filters models.JobFilters) ([]models.JobPosting, error) {
	body := map[string]any{"query": query}
	for key, values := range filters.Values() {
		if len(values) > 0 {
			body[key] = values[0]
		}
	}
	var raw json.RawMessage
	if err := s.client.Post(ctx, "/job-postings/search/", body, &raw); err != nil {
		return nil, err
	}
	jobs, _, err := decodeList[models.JobPosting](raw)
	return jobs, err
}

// ToggleSave flips a job's saved relation with one idempotent endpoint
// call. The resulting state is tracked locally for immediate UI feedback,
// preferring the server's answer when it gives one.
func (s *JobsServiceImpl) ToggleSave(ctx context.Context, id int64) (bool, error) {
	var resp struct {
		Saved  *bool  `json:"saved"`
		Detail string `json:"detail"`
	}
	if err := s.client.Post(ctx, fmt.Sprintf("/job-postings/%d/save/", id), nil, &resp); err != nil {
		return s.IsSaved(id), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if resp.Saved != nil {
		s.saved[id] = *resp.Saved
	} else {
		s.saved[id] = !s.saved[id]
	}
	return s.saved[id], nil
}

func (s *JobsServiceImpl) IsSaved(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[id]
}

// Apply submits a job application as multipart form data and invalidates
// the applications cache.
func (s *JobsServiceImpl) Apply(ctx context.Context, jobID int64, input ApplicationInput) (*models.Application, error) {
	fields := map[string]string{
		"cover_letter": input.CoverLetter,
		"skills":       input.Skills,
	}
	var app models.Application
	err := s.client.Upload(ctx, fmt.Sprintf("/job-postings/%d/apply/", jobID),
		"resume", input.ResumeFilename, input.Resume, fields, &app)
	if err != nil {
		return nil, err
	}
	s.InvalidateApplications()
	s.listingsChanged()
	return &app, nil
}

// MyApplications serves from the session cache inside the freshness window
// and refetches past it.
func (s *JobsServiceImpl) MyApplications(ctx context.Context) ([]models.Application, error) {
	if apps, ok := s.appsCache.Get(myApplicationsKey); ok {
		s.metrics.CacheLookupsTotal.WithLabelValues("applications", "hit").Inc()
		return apps, nil
	}
	s.metrics.CacheLookupsTotal.WithLabelValues("applications", "miss").Inc()

	var raw json.RawMessage
	if err := s.client.Get(ctx, "/job-applications/", nil, &raw); err != nil {
		return nil, err
	}
	apps, _, err := decodeList[models.Application](raw)
	if err != nil {
		return nil, err
	}
	s.appsCache.Set(myApplicationsKey, apps)
	return apps, nil
}

func (s *JobsServiceImpl) Application(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application
	if err := s.client.Get(ctx, fmt.Sprintf("/job-applications/%d/", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *JobsServiceImpl) Applications(ctx context.Context, jobID int64) ([]models.Application, error) {
	return s.applicationList(ctx, fmt.Sprintf("/job-postings/%d/applications/", jobID))
}

func (s *JobsServiceImpl) Applicants(ctx context.Context, jobID int64) ([]models.Application, error) {
	return s.applicationList(ctx, fmt.Sprintf("/job-applications/job-applicants/%d/", jobID))
}

func (s *JobsServiceImpl) applicationList(ctx context.Context, endpoint string) ([]models.Application, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	apps, _, err := decodeList[models.Application](raw)
	return apps, err
}

func (s *JobsServiceImpl) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, models.ErrInvalidStatus
	}
	var app models.Application
	body := map[string]models.ApplicationStatus{"status": status}
	if err := s.client.Patch(ctx, fmt.Sprintf("/job-applications/%d/status/", id), body, &app); err != nil {
		return nil, err
	}
	s.InvalidateApplications()
	s.listingsChanged()
	return &app, nil
}

// InvalidateApplications drops the cached "my applications" list. Every
// mutating application call goes through here.
func (s *JobsServiceImpl) InvalidateApplications() {
	s.appsCache.Delete(myApplicationsKey)
}

func (s *JobsServiceImpl) ParseResume(ctx context.Context, resume io.Reader, filename string) (*ResumeParse, error) {
	var parsed ResumeParse
	if err := s.client.Upload(ctx, "/resume/parse/", "resume", filename, resume, nil, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// listingsChanged wakes up any view observing job listings, in this
// process or another one.
func (s *JobsServiceImpl) listingsChanged() {
	if s.signal != nil {
		s.signal.Notify()
	}
}
