package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/handlers"
	"hydration_monitor/internal/ingest"
	"hydration_monitor/internal/logger"
	"hydration_monitor/internal/metrics"
	"hydration_monitor/internal/repository"
	"hydration_monitor/internal/repository/db"
	"hydration_monitor/internal/server"
	"hydration_monitor/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the timer loop and the optional MQTT ingest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger.Get(cfg.LogLevel))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	conn, err := db.InitDB(cfg.DB.DSN)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(reg)

	eng, err := engine.New(cfg, time.Now())
	if err != nil {
		return err
	}

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, eng, service.Deps{Log: log, Metrics: m})
	apiHandler := handlers.NewHandler(services, log, reg)
	srv := server.New(cfg.Port, apiHandler.InitRoutes())

	// connect before anything starts serving so a failed connect leaves nothing running
	var sub *ingest.Subscriber
	if cfg.MQTT.Broker != "" {
		sub, err = ingest.NewSubscriber(cfg.MQTT, services.Bottle, log)
		if err != nil {
			log.Errorw("mqtt_connect_failed", "err", err, "broker", cfg.MQTT.Broker)
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		services.Scheduler.Run(gctx, cfg.Tick())
		return nil
	})

	g.Go(func() error {
		log.Infow("http_listening", "addr", srv.Addr())
		return srv.Run()
	})

	if sub != nil {
		g.Go(func() error { return sub.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
