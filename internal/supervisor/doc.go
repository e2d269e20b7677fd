// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

/*
Package supervisor provides process supervision for Steam Waiter using
suture v4.

# Overview

Long-running services are grouped in two layers:

	RootSupervisor ("steamwaiter")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService   cache sweeps, BadgerDB value log GC
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing maintenance loop is restarted with backoff without touching the
HTTP server.

# Usage Example

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewMaintenanceService(cached, gameStore, services.MaintenanceConfig{}, log))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, 30*time.Second, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Logging

Supervisor events (service start, failure, restart, backoff) are logged
through sutureslog, which writes to a *slog.Logger. Pass a logger built on
logging.NewSlogHandler so they end up in the zerolog stream.

# Thread Safety

Services may be added before or after Serve is called.
*/
package supervisor
