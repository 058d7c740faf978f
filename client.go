//-----------------------------------------------------------------------------
// Copyright (C) Microsoft. All rights reserved.
// Licensed under the MIT license.
// See LICENSE.txt file in the project root for full license information.
//-----------------------------------------------------------------------------
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"weavelab.xyz/latsweep/client"
	"weavelab.xyz/latsweep/config"
	"weavelab.xyz/latsweep/log"
	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/payloads"
	"weavelab.xyz/latsweep/report"
	clientUi "weavelab.xyz/latsweep/ui/client"
)

func runClient(c *cli.Context) error {
	cfg, err := config.ClientFromContext(c)
	if err != nil {
		return exitError(err)
	}

	logger, closeLog, err := log.New(log.Config{
		Debug:     cfg.Debug,
		File:      cfg.LogFile(),
		NoConsole: cfg.NoConsole || cfg.Quiet,
	})
	if err != nil {
		return exitError(err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := clientUi.NewUI(nil, cfg.Quiet)
	out.PrintBanner(cfg.Addr(), cfg.Params)

	m := metric.NewGenericClient()
	d := client.NewDriver(cfg.Params,
		client.WithLogger(logger),
		client.WithMetrics(m.ClientMetrics),
		client.WithObserver(func(k int, s payloads.Step) {
			out.PrintStep(k, cfg.Params.M, s)
		}))
	res := d.Run(ctx, cfg.Addr())
	out.PrintRetransmits(res.Retransmits)

	opts := report.Options{Precise: cfg.Precise, Extended: cfg.Extended}
	if res.Err != nil {
		logger.Error("run failed", zap.Error(res.Err), zap.Int("completed_steps", len(res.Partial)))
		if cfg.KeepPartial && len(res.Partial) > 0 {
			out.PrintPartial(res.Partial)
			if !cfg.NoCSV {
				path := csvPath(cfg)
				if err := report.WriteFile(path, payloads.NewTable(cfg.Params.N, res.Partial), opts); err != nil {
					logger.Error("could not write partial results", zap.String("path", path), zap.Error(err))
				} else {
					out.PrintSaved(path)
				}
			}
		}
		return exitError(res.Err)
	}

	logger.Info("run complete",
		zap.String("table", res.Table.Summary()),
		zap.Float64("round_trips", m.RoundTripsValue()),
		zap.Duration("median", m.RoundTripQuantile(0.5)),
		zap.Uint64("retransmits", res.Retransmits))
	out.PrintTable(res.Table)

	if cfg.NoCSV {
		return nil
	}
	path := csvPath(cfg)
	if err = report.WriteFile(path, res.Table, opts); err != nil {
		return exitError(err)
	}
	out.PrintSaved(path)
	return nil
}

func csvPath(cfg *config.Client) string {
	if cfg.CSVPath != "" {
		return cfg.CSVPath
	}
	return report.FileName(cfg.Params.N, cfg.Params.M, cfg.Params.Q)
}
