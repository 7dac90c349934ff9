// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

/*
Package discovery aggregates points of interest from several providers into
one deduplicated, ranked list with progressive two-phase loading.

# Overview

A request runs in two phases:

 1. Phase 1 queries the single fast source of the category (the encyclopedia
    for attractions) and publishes a partial, already ranked result.
 2. Phase 2 fans out to every other enabled source concurrently, then merges
    everything, ranks it, caches it and publishes the final result.

Every adapter call is retried with a shrinking radius and linear backoff. A
source that exhausts its retries contributes nothing; it never fails the
request.

# Cancellation

Each Discover, Retry or Clear call starts a new epoch. Results are compared
with the current epoch after every phase and again at publication, under the
same lock that starts epochs, so a superseded request can never overwrite a
newer one. Cancellation is cooperative: in-flight provider calls of a stale
request are not interrupted, their results are dropped.

# Components

  - SourceAdapter: one provider, implemented in internal/providers
  - FetchOrchestrator: epochs, phases, retries, commit
  - Deduplicator: reference and proximity matching, field-level merge
  - Ranker: type filter, per-type score order, type priority
  - Engine: state machine, snapshots, observers, filters, enrichment

# Observers

The engine publishes an immutable Snapshot on every state change. Observers
are called synchronously in subscription order:

	sub := engine.Subscribe(discovery.ObserverFunc(func(s discovery.Snapshot) {
	    hub.BroadcastJSON("discovery_state", s)
	}))
	defer sub.Unsubscribe()

# Thread Safety

Engine, FetchOrchestrator, Deduplicator and Ranker are safe for concurrent
use. Snapshots are copies and may be retained.
*/
package discovery
