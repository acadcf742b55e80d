package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
	"github.com/Likhith-Bhargav/talent-link/internal/view"
)

func jobsCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "browse and act on job postings",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list job postings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search"},
					&cli.StringFlag{Name: "location"},
					&cli.StringFlag{Name: "type", Usage: "full_time, part_time, contract, internship or remote"},
					&cli.BoolFlag{Name: "remote"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: func(c *cli.Context) error {
					filters := models.JobFilters{
						Search:   c.String("search"),
						Location: c.String("location"),
						JobType:  models.JobType(c.String("type")),
						Remote:   c.Bool("remote"),
						Page:     c.Int("page"),
						PageSize: (*d).cfg.PageSize,
					}
					result, err := (*d).jobs.List(c.Context, filters)
					if err != nil {
						return err
					}
					if len(result.Results) == 0 {
						fmt.Fprintln(c.App.Writer, "No jobs match your search.")
						return nil
					}
					printJobs(c, result.Results)
					pages := (result.Count + (*d).cfg.PageSize - 1) / (*d).cfg.PageSize
					fmt.Fprintf(c.App.Writer, "\nPage %d of %d (%d jobs)\n", filters.Page, pages, result.Count)
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "full-text job search",
				ArgsUsage: "<query>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("usage: talentlink jobs search <query>", 64)
					}
					jobs, err := (*d).jobs.Search(c.Context, c.Args().First(), models.JobFilters{})
					if err != nil {
						return err
					}
					if len(jobs) == 0 {
						fmt.Fprintln(c.App.Writer, "No jobs match your search.")
						return nil
					}
					printJobs(c, jobs)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one job posting",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					job, err := (*d).jobs.Get(c.Context, id)
					if err != nil {
						return err
					}
					w := c.App.Writer
					fmt.Fprintf(w, "%s\n%s\n\n", job.Title, job.CompanyName)
					fmt.Fprintf(w, "Type:      %s\n", view.JobTypeLabel(job.JobType))
					fmt.Fprintf(w, "Location:  %s\n", view.LocationLabel(job.Location, job.JobType))
					fmt.Fprintf(w, "Salary:    %s\n", view.SalaryLabel(job.Salary))
					fmt.Fprintf(w, "Deadline:  %s\n\n", view.DeadlineLabel(job.ApplicationDeadline))
					fmt.Fprintln(w, job.Description)
					return nil
				},
			},
			{
				Name:      "save",
				Usage:     "toggle a job's saved state",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					id, err := argID(c)
					if err != nil {
						return err
					}
					saved, err := (*d).jobs.ToggleSave(c.Context, id)
					if err != nil {
						return err
					}
					if saved {
						fmt.Fprintln(c.App.Writer, "Job saved")
					} else {
						fmt.Fprintln(c.App.Writer, "Job unsaved")
					}
					return nil
				},
			},
			{
				Name:      "apply",
				Usage:     "apply to a job with a resume file",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "resume", Required: true, Usage: "path to the resume file"},
					&cli.StringFlag{Name: "cover-letter"},
					&cli.StringFlag{Name: "skills", Usage: "comma-separated skills"},
				},
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					id, err := argID(c)
					if err != nil {
						return err
					}
					file, err := os.Open(c.String("resume"))
					if err != nil {
						return err
					}
					defer file.Close()

					app, err := (*d).jobs.Apply(c.Context, id, resources.ApplicationInput{
						CoverLetter:    c.String("cover-letter"),
						Skills:         c.String("skills"),
						Resume:         file,
						ResumeFilename: filepath.Base(c.String("resume")),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Applied to %s (application #%d)\n", app.JobTitle, app.ID)
					return nil
				},
			},
			{
				Name:  "saved",
				Usage: "list saved jobs",
				Action: func(c *cli.Context) error {
					if err := requireAuth(c, *d); err != nil {
						return err
					}
					jobs, err := (*d).jobs.SavedJobs(c.Context)
					if err != nil {
						return err
					}
					if len(jobs) == 0 {
						fmt.Fprintln(c.App.Writer, "No saved jobs.")
						return nil
					}
					printJobs(c, jobs)
					return nil
				},
			},
		},
	}
}

func printJobs(c *cli.Context, jobs []models.JobPosting) {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tTYPE\tLOCATION\tPOSTED")
	now := time.Now()
	for _, job := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Title, job.CompanyName,
			view.JobTypeLabel(job.JobType),
			view.LocationLabel(job.Location, job.JobType),
			view.PostedLabel(job.CreatedAt, now))
	}
	w.Flush()
}

func argID(c *cli.Context) (int64, error) {
	if c.NArg() == 0 {
		return 0, cli.Exit("an id argument is required", 64)
	}
	var id int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil {
		return 0, cli.Exit("invalid id: "+c.Args().First(), 64)
	}
	return id, nil
}
