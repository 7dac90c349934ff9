// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package supervisor provides process supervision for Poiscope using suture v4.

The tree groups long-running services into layers so each can restart on
its own:

	RootSupervisor ("poiscope")
	├── DiscoverySupervisor ("discovery-layer")
	│   ├── DiscoveryEngineService
	│   └── ConfigWatchService (when a config file is in use)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog to the slog adapter in internal/logging, so they share the
zerolog output of the rest of the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Configuration defaults match suture's: FailureThreshold 5, FailureDecay 30s,
FailureBackoff 15s and a 10s shutdown timeout per service.
*/
package supervisor
