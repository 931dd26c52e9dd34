package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/db"
	"github.com/USA-RedDragon/obs-remote/internal/events"
	"github.com/USA-RedDragon/obs-remote/internal/history"
	"github.com/USA-RedDragon/obs-remote/internal/metrics"
	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/USA-RedDragon/obs-remote/internal/relay"
	"github.com/USA-RedDragon/obs-remote/internal/server"
	"github.com/USA-RedDragon/obs-remote/internal/storage"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/ztrue/shutdown"
	"golang.org/x/sync/errgroup"
)

func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obs-remote",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(cmd)
	cmd.AddCommand(newTokenCommand())
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	slog.Info("obs-remote", "version", cmd.Annotations["version"], "commit", cmd.Annotations["commit"])

	config, err := config.LoadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.LogLevel.Level(),
	})))

	db, err := db.MakeDB(config)
	if err != nil {
		return fmt.Errorf("failed to make database: %w", err)
	}
	slog.Info("Database connection established")

	store, err := storage.NewStorage(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("failed to open screenshot storage: %w", err)
	}

	var promMetrics *metrics.Metrics
	if config.HTTP.Metrics.Enabled {
		promMetrics = metrics.NewMetrics()
	}

	recorder := history.NewRecorder(db)
	go recorder.Start()

	bus := events.NewEventBus()
	obsClient := obs.NewClient(obs.Options{
		URL:            config.OBS.URL,
		Password:       config.OBS.Password,
		DialTimeout:    config.OBS.DialTimeout,
		RequestTimeout: config.OBS.RequestTimeout,
	}, bus, promMetrics, recorder)

	var natsConn *nats.Conn
	var natsRelay *relay.Relay
	if config.NATS.Enabled {
		natsConn, err = nats.Connect(config.NATS.URL, nats.Name("obs-remote"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		natsRelay = relay.New(natsConn, config.NATS.SubjectPrefix, obsClient, bus)
		err = natsRelay.Start()
		if err != nil {
			natsConn.Close()
			return fmt.Errorf("failed to start NATS relay: %w", err)
		}
		slog.Info("NATS relay started", "url", config.NATS.URL, "prefix", config.NATS.SubjectPrefix)
	}

	// Connect eagerly so the first API call is fast. Failure is not fatal,
	// requests retry the connection on demand.
	connectCtx, cancel := context.WithTimeout(cmd.Context(), config.OBS.DialTimeout)
	if err := obsClient.Connect(connectCtx); err != nil {
		slog.Warn("OBS is not reachable yet", "url", config.OBS.URL, "error", err)
	}
	cancel()

	slog.Info("Starting HTTP server")
	server := server.NewServer(config, server.Dependencies{
		DB:      db,
		OBS:     obsClient,
		Bus:     bus,
		Storage: store,
		Metrics: promMetrics,
	})
	err = server.Start()
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	stop := func(_ os.Signal) {
		slog.Info("Shutting down")

		errGrp := errgroup.Group{}

		errGrp.Go(func() error {
			return server.Stop()
		})
		if natsRelay != nil {
			errGrp.Go(func() error {
				natsRelay.Stop()
				return natsConn.Drain()
			})
		}

		err := errGrp.Wait()
		if err != nil {
			slog.Error("Shutdown error", "error", err.Error())
		}

		if err := obsClient.Close(); err != nil {
			slog.Error("Failed to close OBS connection", "error", err)
		}
		recorder.Stop()
		if err := store.Close(); err != nil {
			slog.Error("Failed to close screenshot storage", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		slog.Info("Shutdown complete")
	}

	if cmd.Annotations["version"] == "testing" {
		doneChannel := make(chan struct{})
		go func() {
			slog.Info("Sleeping for 5 seconds")
			time.Sleep(5 * time.Second)
			slog.Info("Sending SIGTERM")
			stop(syscall.SIGTERM)
			doneChannel <- struct{}{}
		}()
		<-doneChannel
	} else {
		shutdown.AddWithParam(stop)
		shutdown.Listen(syscall.SIGINT, syscall.SIGKILL, syscall.SIGTERM, syscall.SIGQUIT)
	}

	return nil
}
