package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	extjs "github.com/goliatone/go-extjs"
	"github.com/goliatone/go-extjs/pkg/proxy"
)

const (
	proxyRoute    = "/_proxy/"
	shutdownGrace = 5 * time.Second
)

func newServeCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the runtime assets and generated proxies",
		Long: `Serve Ext.ux.Container.js under /ext-ux/ and the proxy of every loaded
controller under /_proxy/[area/]controller.js. Action URLs answer with 501
until handlers are attached in code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, app)
		},
	}
	cmd.Flags().String("addr", defaultAddr, "listen address")
	_ = c.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (c *cli) routes(app *extjs.Application) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(proxyRoute, http.StripPrefix(proxyRoute, proxyHandler(app, c.logger)))
	mux.Handle("/", app.Handler())
	return mux
}

func (c *cli) serve(ctx context.Context, app *extjs.Application) error {
	server := &http.Server{
		Addr:              c.settings.Addr,
		Handler:           c.routes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		c.logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		c.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// proxyHandler serves "[area/]controller.js" as the controller proxy.
func proxyHandler(app *extjs.Application, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ok := strings.CutSuffix(strings.Trim(r.URL.Path, "/"), ".js")
		path = strings.Trim(path, "/")
		if !ok || path == "" {
			http.NotFound(w, r)
			return
		}
		area, name := splitKey(path)

		body, err := app.Proxies().Body(area, name)
		if err != nil {
			logger.Debug("proxy not served", zap.String("path", r.URL.Path), zap.Error(err))
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		_, _ = io.WriteString(w, "var "+proxy.CamelCase(name)+"Proxy =\n"+body+"\n")
	})
}
