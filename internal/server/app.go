// Package server wires the tsn server together: storage backend, startup
// recovery, the directory service, session coordination and the gRPC and
// WebSocket transports, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tsn/internal/logging"
	"github.com/dmitrijs2005/tsn/internal/server/archive"
	"github.com/dmitrijs2005/tsn/internal/server/config"
	"github.com/dmitrijs2005/tsn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tsn/internal/server/services"
	"github.com/dmitrijs2005/tsn/internal/server/session"
	"github.com/dmitrijs2005/tsn/internal/server/social"
	"github.com/dmitrijs2005/tsn/internal/server/ws"

	gs "github.com/dmitrijs2005/tsn/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	directory *services.DirectoryService
	sessions  *session.Coordinator
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := repomanager.New(c.StorageDriver, c.DataDir, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return newApp(c, logger, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) *App {
	registry := social.NewRegistry(c.MailboxCapacity)
	directory := services.NewDirectoryService(registry, rm, logger)

	var opts []session.Option
	settings := archive.Settings{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
	}
	if settings.Enabled() {
		opts = append(opts, session.WithArchiver(archive.NewS3Archiver(settings, directory)))
	}

	return &App{
		config:    c,
		logger:    logger,
		repos:     rm,
		directory: directory,
		sessions:  session.NewCoordinator(directory, logger, opts...),
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.config.ShutdownTimeout, app.logger, app.directory, app.sessions)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startWSGateway(ctx context.Context, cancelFunc context.CancelFunc) {

	g := ws.NewGateway(app.config.WebSocketAddr, app.sessions, app.logger)

	if err := g.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run prepares storage, recovers the roster and serves until ctx is done or
// a signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver)

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Warn(ctx, "closing storage", "error", err)
		}
	}()

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("storage setup: %w", err)
	}
	if err := app.directory.Recover(ctx); err != nil {
		return fmt.Errorf("recovery: %w", err)
	}

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.WebSocketAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startWSGateway(ctx, cancelFunc)
		}()
	}

	// open streams end once their mailboxes close
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		app.directory.Shutdown()
	}()

	wg.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return nil
}
