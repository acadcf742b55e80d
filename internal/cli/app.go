// Package cli implements the terminal client. Every command builds the
// same dependency set the web UI uses and renders through internal/view.
package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/config"
	"github.com/Likhith-Bhargav/talent-link/internal/resources"
	"github.com/Likhith-Bhargav/talent-link/internal/session"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// deps is the wired client toolkit one command invocation works with.
type deps struct {
	cfg           *config.Config
	logger        *zap.Logger
	client        *api.Client
	session       session.Service
	jobs          resources.JobsService
	companies     resources.CompaniesService
	profile       resources.ProfileService
	notifications resources.NotificationsService
	signal        store.ListingsSignal
}

func buildDeps(cfg *config.Config, logger *zap.Logger) (*deps, error) {
	client, err := api.New(cfg.BaseURL, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}
	fileStore, err := store.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	signal := store.NewFileSignal(cfg.StateDir, time.Second)
	sess := session.NewService(client, fileStore, logger)
	return &deps{
		cfg:           cfg,
		logger:        logger,
		client:        client,
		session:       sess,
		jobs:          resources.NewJobsService(client, signal, logger),
		companies:     resources.NewCompaniesService(client, logger),
		profile:       resources.NewProfileService(client, logger),
		notifications: resources.NewNotificationsService(client, logger),
		signal:        signal,
	}, nil
}

// NewApp builds the command tree.
func NewApp(cfg *config.Config, logger *zap.Logger) *cli.App {
	var d *deps

	return &cli.App{
		Name:  "talentlink",
		Usage: "job board client",
		Before: func(c *cli.Context) error {
			var err error
			d, err = buildDeps(cfg, logger)
			return err
		},
		Commands: []*cli.Command{
			loginCommand(&d),
			logoutCommand(&d),
			registerCommand(&d),
			whoamiCommand(&d),
			jobsCommand(&d),
			companiesCommand(&d),
			applicationsCommand(&d),
			notificationsCommand(&d),
			profileCommand(&d),
			serveCommand(&d),
		},
	}
}

// requireAuth restores the stored session and fails fast when there is no
// usable account.
func requireAuth(c *cli.Context, d *deps) error {
	user, err := d.session.Initialize(c.Context)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("not signed in, run `talentlink login` first")
	}
	return nil
}
