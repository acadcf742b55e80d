package models

import (
	"encoding/json"
	"time"
)

// UserType mirrors the backend's user_type choices. The legacy front end
// sometimes sent the same value under a "role" key; decoding accepts both,
// encoding always produces user_type.
type UserType string

const (
	UserTypeJobSeeker UserType = "job_seeker"
	UserTypeEmployer  UserType = "employer"
	UserTypeRecruiter UserType = "recruiter"
	UserTypeCompany   UserType = "company"
)

// User is an immutable snapshot of the authenticated account, replaced
// wholesale on every fetch.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	UserType    UserType `json:"user_type"`
	IsSuperuser bool     `json:"is_superuser"`
	IsStaff     bool     `json:"is_staff"`
	CompanyID   *int64   `json:"company,omitempty"`
}

type userAlias User

// UnmarshalJSON accepts the legacy "role" key as a fallback for user_type.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		userAlias
		Role UserType `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.userAlias)
	if u.UserType == "" {
		u.UserType = raw.Role
	}
	return nil
}

func (u *User) IsEmployer() bool {
	return u != nil && u.UserType == UserTypeEmployer
}

func (u *User) IsJobSeeker() bool {
	return u != nil && u.UserType == UserTypeJobSeeker
}

func (u *User) IsRecruiter() bool {
	return u != nil && u.UserType == UserTypeRecruiter
}

// CanPostJobs reports whether the account may create job postings.
func (u *User) CanPostJobs() bool {
	return u != nil && (u.UserType == UserTypeEmployer || u.UserType == UserTypeCompany)
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// JobType mirrors the backend's job_type choices.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// JobPosting is read-only from the client's point of view; save and apply
// are separate relations.
type JobPosting struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Location            string     `json:"location"`
	JobType             JobType    `json:"job_type"`
	Salary              string     `json:"salary"`
	IsActive            bool       `json:"is_active"`
	CompanyID           int64      `json:"company"`
	CompanyName         string     `json:"company_name"`
	Skills              []string   `json:"skills"`
	Experience          string     `json:"experience"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ApplicationDeadline string     `json:"application_deadline"`
	Saved               bool       `json:"is_saved"`
	PostedByID          int64      `json:"posted_by"`
	ApplicantCount      int        `json:"applicant_count"`
	deadlineParsed      *time.Time `json:"-"`
}

type jobAlias JobPosting

// UnmarshalJSON accepts the legacy "type" key as a fallback for job_type.
func (j *JobPosting) UnmarshalJSON(data []byte) error {
	var raw struct {
		jobAlias
		Type JobType `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*j = JobPosting(raw.jobAlias)
	if j.JobType == "" {
		j.JobType = raw.Type
	}
	return nil
}

// IsExpired reports whether the application deadline has passed.
func (j *JobPosting) IsExpired(now time.Time) bool {
	if j.ApplicationDeadline == "" {
		return false
	}
	if j.deadlineParsed == nil {
		d, err := time.Parse("2006-01-02", j.ApplicationDeadline)
		if err != nil {
			return false
		}
		j.deadlineParsed = &d
	}
	return now.After(j.deadlineParsed.AddDate(0, 0, 1))
}

type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	Industry    string `json:"industry"`
	Size        string `json:"company_size"`
	JobCount    int    `json:"job_count"`
}

// ApplicationStatus mirrors the backend's application status choices.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusInterviewed ApplicationStatus = "interviewed"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

// ValidApplicationStatus reports whether s is one of the backend's choices.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusInterviewed, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Application relates a user to a job posting.
type Application struct {
	ID            int64             `json:"id"`
	JobPostingID  int64             `json:"job_posting"`
	JobTitle      string            `json:"job_title"`
	ApplicantID   int64             `json:"applicant"`
	ApplicantName string            `json:"applicant_name"`
	Status        ApplicationStatus `json:"status"`
	CoverLetter   string            `json:"cover_letter"`
	Resume        string            `json:"resume"`
	Skills        string            `json:"skills"`
	AppliedAt     time.Time         `json:"applied_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Experience struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Education struct {
	ID           int64  `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartYear    int    `json:"start_year"`
	EndYear      int    `json:"end_year"`
}

type Profile struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user"`
	Headline   string       `json:"headline"`
	Bio        string       `json:"bio"`
	Location   string       `json:"location"`
	Resume     string       `json:"resume"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
}

// Page is the paginated list envelope the backend wraps collection
// responses in.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// AuthState is the payload broadcast on every session state change.
type AuthState struct {
	IsAuthenticated bool
	User            *User
}
