package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/JiscSD/ed318-validator/server"
	"github.com/JiscSD/ed318-validator/version"

	"github.com/oklog/run"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func NewCmdServer(logger logrus.FieldLogger, config *Config) *cobra.Command {
	var profiling bool
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the validation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.WithField("v", version.AppVersion()).Info("Starting server...")
			return doServer(logger, config, profiling)
		},
	}

	cmd.Flags().BoolVar(&profiling, "profiling", false, "Serve profiling data under /debug/pprof/")

	return cmd
}

func doServer(logger logrus.FieldLogger, config *Config, profiling bool) error {
	s, err := server.New(logger, server.Config{
		Mode:            config.Validation.Mode,
		CollectAll:      config.Validation.CollectAll,
		Concurrency:     config.Validation.Concurrency,
		CheckLayerOrder: config.Validation.CheckLayerOrder,
		SchemaCheck:     config.Validation.SchemaCheck,
		CacheSize:       config.Server.CacheSize,
		CacheTTL:        config.Server.CacheTTL,
		MaxBodyBytes:    config.Server.MaxBodyBytes,
		Profiling:       profiling,
	})
	if err != nil {
		return err
	}

	var g run.Group
	{
		ln, err := net.Listen("tcp", config.Server.Addr)
		if err != nil {
			return err
		}
		logger.WithField("addr", ln.Addr().String()).Info("HTTP server listening")

		srv := &http.Server{
			Handler:           s,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Add(func() error {
			if err := srv.Serve(ln); err != http.ErrServerClosed {
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.WithError(err).Warn("HTTP server did not shut down cleanly")
			}
		})
	}
	{
		cancel := make(chan struct{})

		g.Add(func() error {
			err := interrupt(cancel, s)
			logger.Warn("Shutting down...")
			return err
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}
