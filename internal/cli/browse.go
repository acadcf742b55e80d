package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
	"github.com/Likhith-Bhargav/talent-link/internal/view"
)

func companiesCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "companies",
		Usage: "browse companies",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list companies",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search"},
					&cli.StringFlag{Name: "industry"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					result, err := (*d).companies.List(c.Context, models.CompanyFilters{
						Search:   c.String("search"),
						Industry: c.String("industry"),
						Page:     c.Int("page"),
						PageSize: (*d).cfg.PageSize,
					})
					if err != nil {
						return err
					}
					if len(result.Results) == 0 {
						fmt.Fprintln(c.App.Writer, "No companies found.")
						return nil
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tINDUSTRY\tOPEN ROLES")
					for _, company := range result.Results {
						fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", company.ID, company.Name, company.Industry, company.JobCount)
					}
					w.Flush()
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one company and its open jobs",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					company, err := (*d).companies.Get(c.Context, id)
					if err != nil {
						return err
					}
					w := c.App.Writer
					fmt.Fprintf(w, "%s\n", company.Name)
					if company.Industry != "" {
						fmt.Fprintf(w, "Industry: %s\n", company.Industry)
					}
					if company.Website != "" {
						fmt.Fprintf(w, "Website:  %s\n", company.Website)
					}
					if company.Description != "" {
						fmt.Fprintf(w, "\n%s\n", company.Description)
					}

					jobs, err := (*d).companies.Jobs(c.Context, id)
					if err != nil {
						return err
					}
					if len(jobs) > 0 {
						fmt.Fprintf(w, "\nOpen roles:\n")
						printJobs(c, jobs)
					}
					return nil
				},
			},
		},
	}
}

func applicationsCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "applications",
		Usage: "track job applications",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list your applications",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					apps, err := (*d).jobs.MyApplications(c.Context)
					if err != nil {
						return err
					}
					if len(apps) == 0 {
						fmt.Fprintln(c.App.Writer, "You have not applied to any jobs yet.")
						return nil
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tJOB\tSTATUS\tAPPLIED")
					for _, app := range apps {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", app.ID, app.JobTitle,
							view.StatusLabel(app.Status), app.AppliedAt.Format("Jan 2, 2006"))
					}
					w.Flush()
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "update an application's status (employer)",
				ArgsUsage: "<id> <status>",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					id, err := argID(c)
					if err != nil {
						return err
					}
					if c.NArg() < 2 {
						return cli.Exit("usage: talentlink applications status <id> <status>", 64)
					}
					status := models.ApplicationStatus(c.Args().Get(1))
					app, err := (*d).jobs.UpdateApplicationStatus(c.Context, id, status)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Application #%d is now %s\n", app.ID, view.StatusLabel(app.Status))
					return nil
				},
			},
			{
				Name:      "applicants",
				Usage:     "list applicants for one of your postings (employer)",
				ArgsUsage: "<job-id>",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					id, err := argID(c)
					if err != nil {
						return err
					}
					apps, err := (*d).jobs.Applicants(c.Context, id)
					if err != nil {
						return err
					}
					if len(apps) == 0 {
						fmt.Fprintln(c.App.Writer, "No applicants yet.")
						return nil
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tAPPLICANT\tSTATUS\tAPPLIED")
					for _, app := range apps {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", app.ID, app.ApplicantName,
							view.StatusLabel(app.Status), app.AppliedAt.Format("Jan 2, 2006"))
					}
					w.Flush()
					return nil
				},
			},
		},
	}
}

func notificationsCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "notifications",
		Usage: "read notifications",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list notifications",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					items, err := (*d).notifications.List(c.Context)
					if err != nil {
						return err
					}
					if len(items) == 0 {
						fmt.Fprintln(c.App.Writer, "Nothing new.")
						return nil
					}
					for _, n := range items {
						marker := " "
						if !n.Read {
							marker = "*"
						}
						fmt.Fprintf(c.App.Writer, "%s [%d] %s (%s)\n", marker, n.ID, n.Message,
							n.CreatedAt.Format("Jan 2 15:04"))
					}
					return nil
				},
			},
			{
				Name:      "read",
				Usage:     "mark a notification read, or all with no argument",
				ArgsUsage: "[id]",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					if c.NArg() == 0 {
						if err := (*d).notifications.MarkAllRead(c.Context); err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, "All notifications marked read")
						return nil
					}
					id, err := argID(c)
					if err != nil {
						return err
					}
					return (*d).notifications.MarkRead(c.Context, id)
				},
			},
		},
	}
}

func profileCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "view and edit your profile",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show your profile",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					profile, err := (*d).profile.Me(c.Context)
					if err != nil {
						return err
					}
					w := c.App.Writer
					if profile.Headline != "" {
						fmt.Fprintln(w, profile.Headline)
					}
					if profile.Location != "" {
						fmt.Fprintf(w, "Location: %s\n", profile.Location)
					}
					if len(profile.Skills) > 0 {
						fmt.Fprintf(w, "Skills:   %v\n", profile.Skills)
					}
					if profile.Bio != "" {
						fmt.Fprintf(w, "\n%s\n", profile.Bio)
					}
					for _, exp := range profile.Experience {
						fmt.Fprintf(w, "\n%s at %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, endOrPresent(exp.EndDate))
					}
					for _, edu := range profile.Education {
						fmt.Fprintf(w, "\n%s, %s (%d - %d)\n", edu.Degree, edu.School, edu.StartYear, edu.EndYear)
					}
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "headline"},
					&cli.StringFlag{Name: "bio"},
					&cli.StringFlag{Name: "location"},
				},
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					_, err := (*d).profile.Update(c.Context, resources.ProfileInput{
						Headline: c.String("headline"),
						Bio:      c.String("bio"),
						Location: c.String("location"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "Profile updated")
					return nil
				},
			},
		},
	}
}

func endOrPresent(end string) string {
	if end == "" {
		return "present"
	}
	return end
}
