//-----------------------------------------------------------------------------
// Copyright (C) Microsoft. All rights reserved.
// Licensed under the MIT license.
// See LICENSE.txt file in the project root for full license information.
//-----------------------------------------------------------------------------
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oklog/run"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"weavelab.xyz/latsweep/config"
	"weavelab.xyz/latsweep/log"
	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/server"
	"weavelab.xyz/latsweep/server/tcp"
	"weavelab.xyz/latsweep/session"
	serverUi "weavelab.xyz/latsweep/ui/server"
)

func runServer(c *cli.Context) error {
	cfg, err := config.ServerFromContext(c)
	if err != nil {
		return exitError(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := session.NewRegistry()
	totals := metric.NewGenericServer()

	term, uiErr := serverUi.NewUI(cfg.ShowUI, "latsweep server (Version: "+config.Version+")", reg, totals, cancel)
	defer term.Close()

	logCfg := log.Config{
		Debug:     cfg.Debug,
		File:      cfg.LogFile(),
		NoConsole: cfg.NoConsole || term.IsTui,
	}
	if term.IsTui {
		logCfg.Panes = term.Terminal
	}
	logger, closeLog, err := log.New(logCfg)
	if err != nil {
		return exitError(err)
	}
	defer closeLog()
	if uiErr != nil {
		logger.Warn("text UI unavailable, using console output", zap.Error(uiErr))
	}

	metrics := totals.ServerMetrics
	if cfg.MetricsAddr != "" {
		metrics = metric.Tee(metrics, metric.NewPrometheusServer())
	}

	scfg := &server.Config{
		IPVersion:   cfg.IPVersion,
		LocalIP:     cfg.LocalIP,
		LocalPort:   int(cfg.Port),
		Framing:     cfg.Framing,
		ReusePort:   cfg.ReusePort,
		QuickAck:    cfg.QuickAck,
		IdleTimeout: cfg.IdleTimeout,
		Logger:      logger,
	}
	sched := server.NewScheduler(cfg.MaxSessions, logger)
	logger.Info("starting",
		zap.String("addr", scfg.Addr()),
		zap.Stringer("framing", cfg.Framing),
		zap.Int("max_sessions", cfg.MaxSessions))

	var g run.Group
	g.Add(func() error {
		return tcp.Serve(ctx, scfg, tcp.NewHandler(scfg, metrics), sched, reg)
	}, func(error) {
		cancel()
	})
	{
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		g.Add(func() error {
			select {
			case sig := <-sigCh:
				logger.Info("shutting down", zap.String("signal", sig.String()))
			case <-ctx.Done():
			}
			return nil
		}, func(error) {
			signal.Stop(sigCh)
			cancel()
		})
	}
	g.Add(func() error {
		return term.Display(ctx)
	}, func(error) {
		cancel()
	})
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metric.Handler()}
		g.Add(func() error {
			logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(error) {
			srv.Close()
		})
	}

	if err = g.Run(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return exitError(err)
	}
	return nil
}
