package server

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	xhttp "KuRelay/pkg/http"
	applogger "KuRelay/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// App encapsulates the entire application lifecycle.
type App struct {
	httpServer *xhttp.Server
	logger     *applogger.Logger
	closers    []io.Closer
}

// New creates a new App. closers are released in order after the HTTP server stops.
func New(httpServer *xhttp.Server, l *applogger.Logger, closers ...io.Closer) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{httpServer: httpServer, logger: l, closers: closers}
}

// Run serves HTTP until ctx is done, SIGINT/SIGTERM arrives or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.httpServer == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.httpServer.ListenAndServe()
	})

	group.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		return a.httpServer.Stop(shutdownCtx)
	})

	err := group.Wait()
	a.close()
	a.logger.Info("shutdown complete")
	return err
}

func (a *App) shutdownTimeout() time.Duration {
	if d := a.httpServer.ShutdownTimeout(); d > 0 {
		return d
	}
	return 10 * time.Second
}

func (a *App) close() {
	// detach first so no error log races the publisher close
	a.logger.RemoveCollector()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
		}
	}
}
