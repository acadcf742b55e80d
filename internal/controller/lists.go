package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
)

// JobsController drives the paginated job listings view.
type JobsController = ListController[models.JobPosting, models.JobFilters]

func NewJobsController(jobs resources.JobsService, filters models.JobFilters, pageSize int, logger *zap.Logger) *JobsController {
	fetch := func(ctx context.Context, f models.JobFilters, page int) ([]models.JobPosting, int, error) {
		f.Page = page
		f.PageSize = pageSize
		result, err := jobs.List(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		return result.Results, result.Count, nil
	}
	return NewListController(fetch, filters, pageSize, logger)
}

// CompaniesController drives the paginated company directory view.
type CompaniesController = ListController[models.Company, models.CompanyFilters]

func NewCompaniesController(companies resources.CompaniesService, filters models.CompanyFilters, pageSize int, logger *zap.Logger) *CompaniesController {
	fetch := func(ctx context.Context, f models.CompanyFilters, page int) ([]models.Company, int, error) {
		f.Page = page
		f.PageSize = pageSize
		result, err := companies.List(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		return result.Results, result.Count, nil
	}
	return NewListController(fetch, filters, pageSize, logger)
}

// ApplicationsController drives the "my applications" view. The backend
// returns the whole list, so pages are sliced locally.
type ApplicationsController = ListController[models.Application, struct{}]

func NewApplicationsController(jobs resources.JobsService, pageSize int, logger *zap.Logger) *ApplicationsController {
	fetch := func(ctx context.Context, _ struct{}, page int) ([]models.Application, int, error) {
		apps, err := jobs.MyApplications(ctx)
		if err != nil {
			return nil, 0, err
		}
		return slicePage(apps, page, pageSize), len(apps), nil
	}
	return NewListController(fetch, struct{}{}, pageSize, logger)
}

// slicePage cuts one page out of a fully loaded list.
func slicePage[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
