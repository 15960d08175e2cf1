package main

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	apihttp "expenso/internal/http"
	"expenso/internal/log"
)

// cmdServe runs the JSON API until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout.
func (a *app) cmdServe(ctx context.Context, args []string) error {
	fs := a.flagSet("serve")
	addr := fs.String("addr", a.cfg.Addr(), "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := apihttp.NewServer(*addr, a.store, a.logger, a.cfg.CurrencySymbol)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting expenso server",
			log.FieldOperation, log.OpStartup, log.FieldAddr, *addr, log.FieldBackend, a.cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Server shutdown error", log.FieldOperation, log.OpShutdown, log.FieldError, err)
			return err
		}
		a.logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
		return nil
	})

	return g.Wait()
}
