package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/webui"
)

func serveCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides TALENTLINK_WEB_ADDR)"},
		},
		Action: func(c *cli.Context) error {
			dd := *d
			if addr := c.String("addr"); addr != "" {
				dd.cfg.WebAddr = addr
			}

			// Restore a stored session so the UI starts signed in when
			// a valid token exists.
			if _, err := dd.session.Initialize(c.Context); err != nil {
				dd.logger.Warn("session restore failed", zap.Error(err))
			}

			ui, err := webui.New(dd.cfg, dd.session, dd.jobs, dd.companies, dd.notifications, dd.signal, dd.logger)
			if err != nil {
				return err
			}
			srv := ui.HTTPServer()

			done := make(chan bool, 1)
			go gracefulShutdown(srv, dd.logger, done)

			dd.logger.Info("Web UI listening", zap.String("addr", dd.cfg.WebAddr))
			fmt.Fprintf(c.App.Writer, "Serving on http://localhost%s\n", dd.cfg.WebAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			<-done
			return nil
		},
	}
}

// gracefulShutdown drains the HTTP server when an interrupt arrives.
func gracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}
