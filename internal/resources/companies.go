package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

// Ensure implementation satisfies the interface
var _ CompaniesService = (*CompaniesServiceImpl)(nil)

// CompaniesService wraps the companies endpoints.
type CompaniesService interface {
	List(ctx context.Context, filters models.CompanyFilters) (*models.Page[models.Company], error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	MyCompany(ctx context.Context) (*models.Company, error)
	Upsert(ctx context.Context, input CompanyInput) (*models.Company, error)
	UploadLogo(ctx context.Context, companyID int64, logo io.Reader, filename string) (*models.Company, error)
	Jobs(ctx context.Context, companyID int64) ([]models.JobPosting, error)
}

// CompanyInput creates a company when ID is zero and patches it otherwise.
type CompanyInput struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"company_size,omitempty"`
}

type CompaniesServiceImpl struct {
	client *api.Client
	logger *zap.Logger
}

func NewCompaniesService(client *api.Client, logger *zap.Logger) *CompaniesServiceImpl {
	return &CompaniesServiceImpl{client: client, logger: logger}
}

func (s *CompaniesServiceImpl) List(ctx context.Context, filters models.CompanyFilters) (*models.Page[models.Company], error) {
	var page models.Page[models.Company]
	if err := s.client.Get(ctx, "/companies/", filters.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *CompaniesServiceImpl) Get(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	if err := s.client.Get(ctx, fmt.Sprintf("/companies/%d/", id), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompaniesServiceImpl) MyCompany(ctx context.Context) (*models.Company, error) {
	var company models.Company
	if err := s.client.Get(ctx, "/companies/me/", nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Upsert creates or updates the company profile depending on whether the
// input already carries an ID.
func (s *CompaniesServiceImpl) Upsert(ctx context.Context, input CompanyInput) (*models.Company, error) {
	var company models.Company
	var err error
	if input.ID != 0 {
		err = s.client.Patch(ctx, fmt.Sprintf("/companies/%d/", input.ID), input, &company)
	} else {
		err = s.client.Post(ctx, "/companies/", input, &company)
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompaniesServiceImpl) UploadLogo(ctx context.Context, companyID int64, logo io.Reader, filename string) (*models.Company, error) {
	var company models.Company
	endpoint := fmt.Sprintf("/companies/%d/logo/", companyID)
	if err := s.client.Upload(ctx, endpoint, "logo", filename, logo, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompaniesServiceImpl) Jobs(ctx context.Context, companyID int64) ([]models.JobPosting, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, fmt.Sprintf("/companies/%d/jobs/", companyID), nil, &raw); err != nil {
		return nil, err
	}
	jobs, _, err := decodeList[models.JobPosting](raw)
	return jobs, err
}
