package resources

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

// Ensure implementation satisfies the interface
var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileService wraps the profile endpoints and their experience and
// education sub-resources.
type ProfileService interface {
	Me(ctx context.Context) (*models.Profile, error)
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	Update(ctx context.Context, input ProfileInput) (*models.Profile, error)

	UploadResume(ctx context.Context, resume io.Reader, filename string) (*models.Profile, error)
	DownloadResume(ctx context.Context) (io.ReadCloser, string, error)
	DeleteResume(ctx context.Context) error
	UpdateSkills(ctx context.Context, skills []string) (*models.Profile, error)

	AddExperience(ctx context.Context, exp models.Experience) (*models.Experience, error)
	UpdateExperience(ctx context.Context, id int64, exp models.Experience) (*models.Experience, error)
	DeleteExperience(ctx context.Context, id int64) error

	AddEducation(ctx context.Context, edu models.Education) (*models.Education, error)
	UpdateEducation(ctx context.Context, id int64, edu models.Education) (*models.Education, error)
	DeleteEducation(ctx context.Context, id int64) error
}

type ProfileInput struct {
	Headline string `json:"headline,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
}

type ProfileServiceImpl struct {
	client *api.Client
	logger *zap.Logger
}

func NewProfileService(client *api.Client, logger *zap.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{client: client, logger: logger}
}

func (s *ProfileServiceImpl) Me(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Get(ctx, "/profiles/me/", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileServiceImpl) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Get(ctx, fmt.Sprintf("/profiles/%d/", userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileServiceImpl) Update(ctx context.Context, input ProfileInput) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Patch(ctx, "/profiles/me/", input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileServiceImpl) UploadResume(ctx context.Context, resume io.Reader, filename string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Upload(ctx, "/profiles/me/resume/", "resume", filename, resume, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DownloadResume streams the stored resume file; the caller owns the
// ReadCloser.
func (s *ProfileServiceImpl) DownloadResume(ctx context.Context) (io.ReadCloser, string, error) {
	return s.client.Download(ctx, "/profiles/me/resume/")
}

func (s *ProfileServiceImpl) DeleteResume(ctx context.Context) error {
	return s.client.Delete(ctx, "/profiles/me/resume/", nil)
}

func (s *ProfileServiceImpl) UpdateSkills(ctx context.Context, skills []string) (*models.Profile, error) {
	var profile models.Profile
	body := map[string][]string{"skills": skills}
	if err := s.client.Put(ctx, "/profiles/me/skills/", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileServiceImpl) AddExperience(ctx context.Context, exp models.Experience) (*models.Experience, error) {
	var created models.Experience
	if err := s.client.Post(ctx, "/profiles/me/experience/", exp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ProfileServiceImpl) UpdateExperience(ctx context.Context, id int64, exp models.Experience) (*models.Experience, error) {
	var updated models.Experience
	if err := s.client.Patch(ctx, fmt.Sprintf("/profiles/me/experience/%d/", id), exp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileServiceImpl) DeleteExperience(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/profiles/me/experience/%d/", id), nil)
}

func (s *ProfileServiceImpl) AddEducation(ctx context.Context, edu models.Education) (*models.Education, error) {
	var created models.Education
	if err := s.client.Post(ctx, "/profiles/me/education/", edu, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ProfileServiceImpl) UpdateEducation(ctx context.Context, id int64, edu models.Education) (*models.Education, error) {
	var updated models.Education
	if err := s.client.Patch(ctx, fmt.Sprintf("/profiles/me/education/%d/", id), edu, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileServiceImpl) DeleteEducation(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/profiles/me/education/%d/", id), nil)
}
