// Package server initializes and runs the INFORM application server.
// It loads configuration, opens the Postgres-backed repositories, seeds the
// bootstrap administrator, and starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ddanilovs/inform/internal/logging"
	"github.com/ddanilovs/inform/internal/server/config"
	"github.com/ddanilovs/inform/internal/server/httpapi"
	"github.com/ddanilovs/inform/internal/server/repositories/repomanager"
	"github.com/ddanilovs/inform/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	users       *services.UserService
	tools       *services.ToolService
	informs     *services.InformService
	attachments *services.AttachmentService
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(rm.Users(), c)
	ts := services.NewToolService(rm.Tools())
	is := services.NewInformService(rm.Informs(), rm.Tools())
	as := services.NewAttachmentService(c)

	return &App{
		config:      c,
		logger:      logger,
		users:       us,
		tools:       ts,
		informs:     is,
		attachments: as,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) seedAdmin(ctx context.Context) {
	if app.config.AdminEmail == "" || app.config.AdminPassword == "" {
		app.logger.Warn(ctx, "Admin credentials not configured, skipping seed")
		return
	}

	created, err := app.users.SeedAdmin(ctx)
	if err != nil {
		app.logger.Error(ctx, "Admin seed failed", "error", err)
		return
	}

	if created {
		app.logger.Info(ctx, "Admin account seeded", "email", app.config.AdminEmail)
	} else {
		app.logger.Info(ctx, "Admin account already exists, seed skipped")
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.users, app.tools, app.informs, app.attachments, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.seedAdmin(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
