package models

import (
	"net/url"
	"strconv"
)

const DefaultPageSize = 10

// SortNewest is the default ordering and is omitted from query strings,
// matching what the backend assumes when no sort key is sent.
const SortNewest = "newest"

// JobFilters is the transient per-view query state for job listings. Zero
// values are stripped before a request is sent.
type JobFilters struct {
	Search     string
	Location   string
	JobType    JobType
	Experience string
	SalaryMin  string
	SalaryMax  string
	Remote     bool
	SortBy     string
	Page       int
	PageSize   int
}

// Values encodes the filters as backend query parameters, dropping empty
// and default entries.
func (f JobFilters) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "search", f.Search)
	setNonEmpty(v, "location", f.Location)
	setNonEmpty(v, "job_type", string(f.JobType))
	setNonEmpty(v, "experience", f.Experience)
	setNonEmpty(v, "salary_min", f.SalaryMin)
	setNonEmpty(v, "salary_max", f.SalaryMax)
	if f.Remote {
		v.Set("remote", "true")
	}
	if f.SortBy != "" && f.SortBy != SortNewest {
		v.Set("sort", f.SortBy)
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return v
}

// FromValues restores filter state from a query string, the inverse of
// Values. Unknown keys are ignored.
func (f *JobFilters) FromValues(v url.Values) {
	f.Search = v.Get("search")
	f.Location = v.Get("location")
	f.JobType = JobType(v.Get("job_type"))
	f.Experience = v.Get("experience")
	f.SalaryMin = v.Get("salary_min")
	f.SalaryMax = v.Get("salary_max")
	f.Remote = v.Get("remote") == "true"
	f.SortBy = v.Get("sort")
	if f.SortBy == "" {
		f.SortBy = SortNewest
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		f.Page = p
	} else {
		f.Page = 1
	}
}

// CompanyFilters is the transient query state for company listings.
type CompanyFilters struct {
	Search   string
	Industry string
	Size     string
	Page     int
	PageSize int
}

func (f CompanyFilters) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "search", f.Search)
	setNonEmpty(v, "industry", f.Industry)
	setNonEmpty(v, "company_size", f.Size)
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return v
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
