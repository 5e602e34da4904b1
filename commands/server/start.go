package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/weave-swap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags.
// The registerer is nil when metrics are disabled.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd runs the ABCI socket server until the process is signalled.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				select {
				case s := <-sig:
					logger.Info("Shutting down", "signal", s.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			opts := StartOptions{
				Home:        viper.GetString(FlagHome),
				Bind:        viper.GetString(flagBind),
				MetricsBind: viper.GetString(flagMetrics),
				Debug:       viper.GetBool(flagDebug),
			}
			return Start(ctx, gen, logger, opts)
		},
	}
	cmd.Flags().String(flagBind, "tcp://localhost:26658", "address the ABCI server listens on")
	cmd.Flags().String(flagMetrics, "", "address of the prometheus /metrics listener, disabled when empty")
	cmd.Flags().Bool(flagDebug, false, "include call stacks in returned errors")
	_ = viper.BindPFlags(cmd.Flags())
	return cmd
}

// StartOptions configure Start.
type StartOptions struct {
	Home        string
	Bind        string
	MetricsBind string
	Debug       bool
}

// Start builds the application and serves it until the context is
// cancelled or one of the listeners fails.
func Start(ctx context.Context, gen AppGenerator, logger log.Logger, opts StartOptions) error {
	var reg *prometheus.Registry
	if opts.MetricsBind != "" {
		reg = prometheus.NewRegistry()
	}

	var app abci.Application
	var err error
	// A nil *Registry must not reach the generator as a non nil interface.
	if reg != nil {
		app, err = gen(opts.Home, logger, opts.Debug, reg)
	} else {
		app, err = gen(opts.Home, logger, opts.Debug, nil)
	}
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))

	group, ctx := errgroup.WithContext(ctx)

	logger.Info("Starting ABCI app", "bind", opts.Bind)
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start ABCI server")
	}
	group.Go(func() error {
		<-ctx.Done()
		return svr.Stop()
	})

	if reg != nil {
		metrics := &http.Server{
			Addr:    opts.MetricsBind,
			Handler: metricsHandler(reg),
		}
		logger.Info("Serving metrics", "bind", opts.MetricsBind)
		group.Go(func() error {
			if err := metrics.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metrics.Shutdown(sctx)
		})
	}

	return group.Wait()
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
