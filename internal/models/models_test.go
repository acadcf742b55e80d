package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDecodeAcceptsLegacyRole(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected UserType
	}{
		{"user_type key", `{"id":1,"username":"ada","user_type":"employer"}`, UserTypeEmployer},
		{"legacy role key", `{"id":1,"username":"ada","role":"job_seeker"}`, UserTypeJobSeeker},
		{"user_type wins over role", `{"id":1,"user_type":"recruiter","role":"employer"}`, UserTypeRecruiter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u User
			require.NoError(t, json.Unmarshal([]byte(tt.body), &u))
			assert.Equal(t, tt.expected, u.UserType)
		})
	}
}

func TestUserEncodeProducesUserType(t *testing.T) {
	u := User{ID: 1, Username: "ada", UserType: UserTypeEmployer}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_type":"employer"`)
	assert.NotContains(t, string(data), `"role"`)
}

func TestUserPredicates(t *testing.T) {
	employer := &User{UserType: UserTypeEmployer}
	company := &User{UserType: UserTypeCompany}
	seeker := &User{UserType: UserTypeJobSeeker}
	var nilUser *User

	assert.True(t, employer.IsEmployer())
	assert.True(t, employer.CanPostJobs())
	assert.True(t, company.CanPostJobs())
	assert.False(t, seeker.CanPostJobs())
	assert.True(t, seeker.IsJobSeeker())
	assert.False(t, nilUser.IsEmployer())
	assert.False(t, nilUser.CanPostJobs())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", Username: "alovelace"}).DisplayName())
	assert.Equal(t, "alovelace", (&User{Username: "alovelace"}).DisplayName())
	assert.Empty(t, (*User)(nil).DisplayName())
}

func TestJobPostingDecodeAcceptsLegacyType(t *testing.T) {
	var j JobPosting
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"title":"Go Engineer","type":"contract"}`), &j))
	assert.Equal(t, JobTypeContract, j.JobType)

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"job_type":"remote","type":"contract"}`), &j))
	assert.Equal(t, JobTypeRemote, j.JobType)
}

func TestJobPostingIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		expired  bool
	}{
		{"no deadline never expires", "", false},
		{"future deadline", "2026-04-01", false},
		{"deadline day still open", "2026-03-15", false},
		{"past deadline", "2026-03-10", true},
		{"unparseable deadline treated open", "soon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := JobPosting{ApplicationDeadline: tt.deadline}
			assert.Equal(t, tt.expired, j.IsExpired(now))
		})
	}
}

func TestValidApplicationStatus(t *testing.T) {
	for _, s := range []ApplicationStatus{StatusApplied, StatusReviewed, StatusInterviewed, StatusRejected, StatusHired} {
		assert.True(t, ValidApplicationStatus(s))
	}
	assert.False(t, ValidApplicationStatus("pending"))
	assert.False(t, ValidApplicationStatus(""))
}

func TestJobFiltersValues(t *testing.T) {
	f := JobFilters{
		Search:   "golang",
		Location: "Berlin",
		JobType:  JobTypeFullTime,
		SortBy:   SortNewest,
		Page:     1,
		PageSize: 10,
	}
	v := f.Values()

	assert.Equal(t, "golang", v.Get("search"))
	assert.Equal(t, "Berlin", v.Get("location"))
	assert.Equal(t, "full_time", v.Get("job_type"))
	assert.Equal(t, "10", v.Get("page_size"))
	// Defaults are stripped.
	assert.Empty(t, v.Get("sort"))
	assert.Empty(t, v.Get("page"))
	assert.Empty(t, v.Get("experience"))

	f.Page = 3
	f.SortBy = "salary"
	f.Remote = true
	v = f.Values()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "salary", v.Get("sort"))
	assert.Equal(t, "true", v.Get("remote"))
}

func TestJobFiltersRoundTrip(t *testing.T) {
	original := JobFilters{
		Search:   "backend",
		Location: "Remote",
		JobType:  JobTypePartTime,
		Remote:   true,
		SortBy:   "salary",
		Page:     4,
	}
	var restored JobFilters
	restored.FromValues(original.Values())

	assert.Equal(t, original.Search, restored.Search)
	assert.Equal(t, original.Location, restored.Location)
	assert.Equal(t, original.JobType, restored.JobType)
	assert.Equal(t, original.Remote, restored.Remote)
	assert.Equal(t, original.SortBy, restored.SortBy)
	assert.Equal(t, original.Page, restored.Page)
}

func TestFromValuesDefaults(t *testing.T) {
	var f JobFilters
	f.FromValues(nil)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, SortNewest, f.SortBy)
}
