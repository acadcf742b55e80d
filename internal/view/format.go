// Package view holds pure formatting helpers shared by the web UI and the
// CLI. Nothing here fetches; every function maps model data to a string.
package view

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
)

var titleCaser = cases.Title(language.English)

// JobTypeLabel renders a job type constant as display text, e.g.
// "full_time" becomes "Full Time".
func JobTypeLabel(t models.JobType) string {
	if t == "" {
		return "Not specified"
	}
	return titleCaser.String(strings.ReplaceAll(string(t), "_", " "))
}

// StatusLabel renders an application status as display text.
func StatusLabel(s models.ApplicationStatus) string {
	if s == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(string(s), "_", " "))
}

// ExperienceLabel renders an experience-level filter value.
func ExperienceLabel(level string) string {
	if level == "" {
		return "Any experience"
	}
	return titleCaser.String(strings.ReplaceAll(level, "_", " "))
}

// SalaryLabel renders the salary field, which the backend stores as free
// text, with a fallback for empty values.
func SalaryLabel(salary string) string {
	if strings.TrimSpace(salary) == "" {
		return "Not disclosed"
	}
	return salary
}

// PostedLabel renders a posting timestamp as a relative age, the way job
// boards label cards.
func PostedLabel(postedAt, now time.Time) string {
	if postedAt.IsZero() {
		return ""
	}
	age := now.Sub(postedAt)
	switch {
	case age < time.Minute:
		return "Just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	default:
		return postedAt.Format("Jan 2, 2006")
	}
}

// DeadlineLabel renders an application deadline date string.
func DeadlineLabel(deadline string) string {
	if deadline == "" {
		return "Open until filled"
	}
	t, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return deadline
	}
	return "Closes " + t.Format("Jan 2, 2006")
}

// CompanyInitial returns the single-rune avatar letter for a company.
func CompanyInitial(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}

// LocationLabel renders a location with its remote flag folded in.
func LocationLabel(location string, jobType models.JobType) string {
	if jobType == models.JobTypeRemote {
		if location == "" {
			return "Remote"
		}
		return location + " (Remote)"
	}
	if location == "" {
		return "Location not specified"
	}
	return location
}
