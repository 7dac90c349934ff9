// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// DefaultFastSources designates the phase 1 adapter per category.
func DefaultFastSources() map[models.Category]models.Source {
	return map[models.Category]models.Source{
		models.CategoryAttraction: models.SourceWikipedia,
	}
}

// Request is one discovery call with the settings resolved at call time.
type Request struct {
	Epoch         uint64
	Origin        models.Location
	Category      models.Category
	Sources       []models.Source
	Types         []models.POIType
	Priority      []models.POIType
	RadiusMeters  float64
	ForceRefresh  bool
	CorrelationID string
	StartedAt     time.Time
}

// CacheKey returns the result cache key of the request.
func (r *Request) CacheKey() cache.ResultKey {
	return cache.ResultKey{OriginID: r.Origin.Key(), Category: r.Category}
}

// Result is the outcome of a completed request.
type Result struct {
	Merged    []models.POI // deduplicated, unfiltered
	Ranked    []models.POI
	Reports   []SourceReport
	AllFailed bool
}

// Publisher receives intermediate and final results. Each method returns
// false when the request was superseded and nothing was published; the check
// and the publication must be atomic with respect to Begin. PublishFinal runs
// commit after the check and before observers are notified.
type Publisher interface {
	PublishPartial(req *Request, res *Result) bool
	PublishPhase2(req *Request) bool
	PublishFinal(req *Request, res *Result, commit func()) bool
}

// FetchOrchestrator runs the two fetch phases of a request, retries failing
// adapters and discards results of superseded epochs.
type FetchOrchestrator struct {
	adapters map[models.Source]SourceAdapter
	fast     map[models.Category]models.Source
	retry    RetryPolicy
	dedup    *Deduplicator
	ranker   *Ranker
	results  *cache.ResultCache
	logger   zerolog.Logger

	epoch    atomic.Uint64
	commitMu sync.Mutex
}

// OrchestratorConfig holds the tunables of a FetchOrchestrator.
type OrchestratorConfig struct {
	Retry       RetryPolicy
	FastSources map[models.Category]models.Source
}

// NewFetchOrchestrator creates an orchestrator over the given adapters. A
// later adapter for an already registered source replaces the earlier one.
func NewFetchOrchestrator(
	adapters []SourceAdapter,
	dedup *Deduplicator,
	ranker *Ranker,
	results *cache.ResultCache,
	cfg OrchestratorConfig,
	logger zerolog.Logger,
) *FetchOrchestrator {
	bySource := make(map[models.Source]SourceAdapter, len(adapters))
	for _, a := range adapters {
		if a != nil {
			bySource[a.Source()] = a
		}
	}
	fast := cfg.FastSources
	if fast == nil {
		fast = DefaultFastSources()
	}
	return &FetchOrchestrator{
		adapters: bySource,
		fast:     fast,
		retry:    cfg.Retry,
		dedup:    dedup,
		ranker:   ranker,
		results:  results,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Begin assigns the next epoch and makes it current.
func (o *FetchOrchestrator) Begin() uint64 {
	e := o.epoch.Add(1)
	metrics.DiscoveryEpoch.Set(float64(e))
	return e
}

// Current returns the current epoch.
func (o *FetchOrchestrator) Current() uint64 {
	return o.epoch.Load()
}

// IsCurrent reports whether epoch is still the latest.
func (o *FetchOrchestrator) IsCurrent(epoch uint64) bool {
	return o.epoch.Load() == epoch
}

// Plan splits the request's enabled sources into the phase 1 adapter (nil
// when the category has none enabled) and the phase 2 adapters in rank order.
// Sources without a registered adapter are skipped.
func (o *FetchOrchestrator) Plan(req *Request) (fast SourceAdapter, rest []SourceAdapter) {
	fastSource, hasFast := o.fast[req.Category]
	for _, src := range req.Sources {
		a, ok := o.adapters[src]
		if !ok || !src.Supports(req.Category) {
			continue
		}
		if hasFast && src == fastSource && fast == nil {
			fast = a
			continue
		}
		rest = append(rest, a)
	}
	return fast, rest
}

// Registered returns the sources with an adapter, in rank order.
func (o *FetchOrchestrator) Registered() []models.Source {
	out := make([]models.Source, 0, len(o.adapters))
	for src := range o.adapters {
		out = append(out, src)
	}
	models.SortSources(out)
	return out
}

// Run executes both phases of req and publishes through pub. It returns
// errStale when a newer epoch superseded the request at any checkpoint.
func (o *FetchOrchestrator) Run(ctx context.Context, req *Request, pub Publisher) (*Result, error) {
	fast, rest := o.Plan(req)
	logger := o.logger.With().
		Uint64("epoch", req.Epoch).
		Str("category", string(req.Category)).
		Str("correlation_id", req.CorrelationID).
		Logger()

	var phase1 []models.POI
	var reports []SourceReport

	if fast != nil {
		start := time.Now()
		pois, report := o.fetchWithRetry(ctx, fast, req, 1, logger)
		metrics.RecordPhase(string(req.Category), "phase1", time.Since(start))
		reports = append(reports, report)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !o.IsCurrent(req.Epoch) {
			return nil, errStale
		}

		phase1 = pois
		merged := o.dedup.Merge(pois)
		partial := &Result{
			Merged:  merged,
			Ranked:  o.ranker.Rank(merged, req.Types, req.Priority, req.Category),
			Reports: cloneReports(reports),
		}
		if !pub.PublishPartial(req, partial) {
			return nil, errStale
		}
		if len(rest) > 0 && !pub.PublishPhase2(req) {
			return nil, errStale
		}
	}

	if len(rest) > 0 {
		start := time.Now()
		lists := make([][]models.POI, len(rest))
		phase2 := make([]SourceReport, len(rest))

		var g errgroup.Group
		for i, a := range rest {
			g.Go(func() error {
				lists[i], phase2[i] = o.fetchWithRetry(ctx, a, req, 2, logger)
				return nil
			})
		}
		_ = g.Wait() // adapters report failures, they never return them

		metrics.RecordPhase(string(req.Category), "phase2", time.Since(start))
		reports = append(reports, phase2...)
		phase1 = concatPOIs(phase1, lists)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !o.IsCurrent(req.Epoch) {
		return nil, errStale
	}

	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	if !o.IsCurrent(req.Epoch) {
		return nil, errStale
	}

	merged := o.dedup.Merge(phase1)
	res := &Result{
		Merged:    merged,
		Ranked:    o.ranker.Rank(merged, req.Types, req.Priority, req.Category),
		Reports:   reports,
		AllFailed: allFailed(reports),
	}

	commit := func() {
		if res.AllFailed {
			logger.Warn().Int("sources", len(reports)).Msg("Every enabled source failed, result not cached")
			return
		}
		o.results.Put(req.CacheKey(), res.Merged)
	}
	if !pub.PublishFinal(req, res, commit) {
		return nil, errStale
	}
	return res, nil
}

// fetchWithRetry calls one adapter until it succeeds or the retry policy is
// exhausted. Failures are logged and reported, never returned.
func (o *FetchOrchestrator) fetchWithRetry(
	ctx context.Context,
	adapter SourceAdapter,
	req *Request,
	phase int,
	logger zerolog.Logger,
) ([]models.POI, SourceReport) {
	source := adapter.Source()
	logger = logger.With().Str("source", string(source)).Logger()
	report := SourceReport{Source: source, Phase: phase}
	start := time.Now()
	maxAttempts := o.retry.attempts()

	radius := o.retry.InitialRadius(req.RadiusMeters)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			radius = o.retry.NextRadius(radius)
			delay := o.retry.Backoff(attempt - 1)
			logger.Warn().Err(lastErr).
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Dur("delay", delay).
				Float64("radius_meters", radius).
				Msg("Retry attempt")
			metrics.AdapterRetries.WithLabelValues(string(source)).Inc()
			if err := sleepContext(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		report.Attempts = attempt
		report.RadiusMeters = radius
		pois, err := o.attempt(ctx, adapter, req.Origin, radius, req.Types)
		if err == nil {
			out := normalizePOIs(req, source, pois)
			report.Succeeded = true
			report.POIs = len(out)
			report.Duration = time.Since(start)
			logger.Debug().Int("pois", len(out)).Int("attempts", attempt).Msg("Provider fetch complete")
			return out, report
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	failure := &AdapterError{Source: source, Attempts: report.Attempts, RadiusMeters: radius, Err: lastErr}
	metrics.AdapterExhausted.WithLabelValues(string(source)).Inc()
	logger.Warn().Err(failure).Msg("Provider failed, continuing without its results")
	report.Error = failure.Error()
	report.Duration = time.Since(start)
	return nil, report
}

// attempt performs one bounded adapter call. A panicking adapter counts as a
// failed attempt.
func (o *FetchOrchestrator) attempt(
	ctx context.Context,
	adapter SourceAdapter,
	origin models.Location,
	radius float64,
	types []models.POIType,
) (pois []models.POI, err error) {
	if o.retry.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.retry.AttemptTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			pois, err = nil, fmt.Errorf("adapter panic: %v", r)
			logging.Ctx(ctx).Error().Str("source", string(adapter.Source())).Interface("panic", r).Msg("Adapter panicked")
		}
		metrics.RecordAdapterCall(string(adapter.Source()), time.Since(start), err)
	}()

	pois, err = adapter.Fetch(ctx, origin, radius, types)
	if err != nil {
		return nil, err
	}
	return pois, nil
}

func allFailed(reports []SourceReport) bool {
	if len(reports) == 0 {
		return false
	}
	for _, r := range reports {
		if r.Succeeded {
			return false
		}
	}
	return true
}

func cloneReports(reports []SourceReport) []SourceReport {
	return append([]SourceReport(nil), reports...)
}

func concatPOIs(head []models.POI, lists [][]models.POI) []models.POI {
	n := len(head)
	for _, l := range lists {
		n += len(l)
	}
	out := make([]models.POI, 0, n)
	out = append(out, head...)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
