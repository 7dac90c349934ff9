// Poiscope - Nearby Place Discovery and Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poiscope

package discovery

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/poiscope/internal/cache"
	"github.com/tomtom215/poiscope/internal/logging"
	"github.com/tomtom215/poiscope/internal/metrics"
	"github.com/tomtom215/poiscope/internal/models"
)

// ErrUnknownType is returned by UpdateTypeFilter for unknown POI types.
var ErrUnknownType = errors.New("unknown poi type")

// EngineDeps holds everything an Engine needs. Settings is required; nil
// collaborators are replaced by defaults.
type EngineDeps struct {
	Adapters     []SourceAdapter
	Deduplicator *Deduplicator
	Ranker       *Ranker
	Results      *cache.ResultCache
	Enrichments  *cache.EnrichmentCache
	Enricher     Enricher
	Settings     SettingsProvider
	Retry        RetryPolicy // zero value selects DefaultRetryPolicy
	FastSources  map[models.Category]models.Source
	DisplayLimit int
	Logger       zerolog.Logger
}

// Engine aggregates POIs from every enabled source for one caller.
//
// Discover starts an epoch and returns immediately; progress is published as
// snapshots to subscribed observers. Publication is serialized and observers
// run synchronously, so an observer must not call Discover, Retry, Clear or
// the filter methods from inside OnSnapshot.
type Engine struct {
	orch         *FetchOrchestrator
	ranker       *Ranker
	results      *cache.ResultCache
	enrichments  *cache.EnrichmentCache
	enricher     Enricher
	settings     SettingsProvider
	displayLimit int
	logger       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	flight singleflight.Group

	pubMu  sync.Mutex // serializes transitions and their notifications
	closed bool       // guarded by pubMu

	mu        sync.RWMutex // guards the fields below
	st        engineState
	lastReq   *Request
	observers []*Subscription
	nextSubID uint64
}

// NewEngine creates an idle engine.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Settings == nil {
		return nil, errors.New("discovery engine requires a settings provider")
	}
	if deps.Deduplicator == nil {
		deps.Deduplicator = NewDeduplicator(DefaultProximityMeters)
	}
	if deps.Ranker == nil {
		deps.Ranker = NewRanker()
	}
	if deps.Results == nil {
		deps.Results = cache.NewResultCache(cache.DefaultResultCapacity)
	}
	if deps.Enrichments == nil {
		deps.Enrichments = cache.NewEnrichmentCache()
	}
	if deps.Retry.MaxAttempts == 0 {
		deps.Retry = DefaultRetryPolicy()
	}
	if deps.DisplayLimit <= 0 {
		deps.DisplayLimit = DefaultDisplayLimit
	}

	logger := deps.Logger.With().Str("component", "discovery-engine").Logger()
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		orch: NewFetchOrchestrator(deps.Adapters, deps.Deduplicator, deps.Ranker, deps.Results,
			OrchestratorConfig{Retry: deps.Retry, FastSources: deps.FastSources}, deps.Logger),
		ranker:       deps.Ranker,
		results:      deps.Results,
		enrichments:  deps.Enrichments,
		enricher:     deps.Enricher,
		settings:     deps.Settings,
		displayLimit: deps.DisplayLimit,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
	e.st.snap = Snapshot{Phase: PhaseIdle}
	return e, nil
}

// Discover starts discovery around origin for category and returns the
// request epoch. Configuration errors are returned and also published as an
// error snapshot; no provider is called in that case. Unless forceRefresh is
// set, a cached result completes the request synchronously.
func (e *Engine) Discover(origin models.Location, category models.Category, forceRefresh bool) (uint64, error) {
	if !origin.Valid() {
		return 0, fmt.Errorf("%w: %.6f,%.6f", ErrInvalidOrigin, origin.Latitude, origin.Longitude)
	}
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	settings := e.settings.Settings()
	req := &Request{
		Origin:        origin,
		Category:      category,
		Sources:       settings.SourcesFor(category),
		Types:         settings.TypesFor(category),
		Priority:      settings.PriorityFor(category),
		RadiusMeters:  settings.RadiusMeters,
		ForceRefresh:  forceRefresh,
		CorrelationID: logging.GenerateCorrelationID(),
		StartedAt:     time.Now(),
	}
	fast, rest := e.orch.Plan(req)

	var cfgErr *DiscoveryError
	switch {
	case fast == nil && len(rest) == 0:
		cfgErr = configurationError(category, ErrAllProvidersDisabled)
	case len(req.Types) == 0:
		cfgErr = configurationError(category, ErrAllTypesDisabled)
	}

	var (
		closed bool
		hit    bool
		cached int
	)
	e.transition(func(st *engineState) bool {
		if e.closed {
			closed = true
			return false
		}
		req.Epoch = e.orch.Begin()
		e.lastReq = req
		*st = engineState{req: req, searchText: st.searchText}

		switch {
		case cfgErr != nil:
			e.rebuild(st, PhaseError)
			st.snap.Error = cfgErr
		case !forceRefresh:
			var pois []models.POI
			if pois, hit = e.results.Get(req.CacheKey()); hit {
				st.base = pois
				e.rebuild(st, PhaseComplete)
				st.snap.FromCache = true
				cached = len(st.snap.Ranked)
				break
			}
			fallthrough
		default:
			phase := PhasePhase2Loading
			if fast != nil {
				phase = PhasePhase1Loading
			}
			e.rebuild(st, phase)
			e.wg.Add(1)
			go e.run(req)
		}
		return true
	})

	logger := e.logger.With().
		Uint64("epoch", req.Epoch).
		Str("category", string(category)).
		Str("origin", origin.Key()).
		Str("correlation_id", req.CorrelationID).
		Logger()

	switch {
	case closed:
		return 0, ErrEngineClosed
	case cfgErr != nil:
		metrics.RecordDiscovery(string(category), "config_error", 0, 0)
		logger.Warn().Err(cfgErr.Unwrap()).Msg("Discovery rejected by settings")
		return req.Epoch, cfgErr
	case hit:
		metrics.RecordDiscovery(string(category), "cached", time.Since(req.StartedAt), cached)
		logger.Debug().Msg("Discovery served from cache")
	default:
		logger.Debug().Bool("force_refresh", forceRefresh).Msg("Discovery started")
	}
	return req.Epoch, nil
}

// Retry re-issues the last Discover call with a forced refresh.
func (e *Engine) Retry() (uint64, error) {
	e.mu.RLock()
	last := e.lastReq
	e.mu.RUnlock()
	if last == nil {
		return 0, ErrNoPreviousRequest
	}
	return e.Discover(last.Origin, last.Category, true)
}

// Clear supersedes any in-flight request and returns to idle. The result
// cache is left untouched.
func (e *Engine) Clear() uint64 {
	var epoch uint64
	e.transition(func(st *engineState) bool {
		epoch = e.orch.Begin()
		*st = engineState{snap: Snapshot{Phase: PhaseIdle, Epoch: epoch}}
		return true
	})
	e.logger.Debug().Uint64("epoch", epoch).Msg("Discovery state cleared")
	return epoch
}

// UpdateTypeFilter re-ranks the current result with a new set of enabled
// types. Nothing is fetched. A nil slice restores the settings' types.
func (e *Engine) UpdateTypeFilter(types []models.POIType) error {
	for _, t := range types {
		if !t.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
	}
	var filter []models.POIType
	if types != nil {
		filter = make([]models.POIType, len(types))
		copy(filter, types)
	}

	e.transition(func(st *engineState) bool {
		st.typeFilter = filter
		e.rebuild(st, st.snap.Phase)
		return true
	})
	return nil
}

// UpdateSearchText narrows the ranked list to POIs whose name or description
// contains text after folding case and diacritics.
func (e *Engine) UpdateSearchText(text string) {
	e.transition(func(st *engineState) bool {
		st.searchText = text
		e.rebuild(st, st.snap.Phase)
		return true
	})
}

// FetchEnrichment returns poi with secondary details merged in, fetching them
// on first use. Enrichments are cached for the engine's lifetime and patched
// into the current snapshot.
func (e *Engine) FetchEnrichment(ctx context.Context, poi models.POI) (models.POI, error) {
	key := poi.PlaceKey()
	en, ok := e.enrichments.Get(key)
	if !ok {
		if e.enricher == nil || !e.enricher.Supports(&poi) {
			return poi, ErrEnrichmentUnavailable
		}
		v, err, _ := e.flight.Do(key, func() (any, error) {
			if cached, ok := e.enrichments.Get(key); ok {
				return cached, nil
			}
			fetched, err := e.enricher.Enrich(ctx, &poi)
			if err != nil {
				return nil, err
			}
			e.enrichments.Put(key, fetched)
			return fetched, nil
		})
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("poi_id", poi.ID).Msg("Enrichment failed")
			return poi, fmt.Errorf("enrich %s: %w", poi.ID, err)
		}
		en, _ = v.(*models.Enrichment)
	}

	enriched := en.Apply(poi)
	if en != nil {
		e.patch(poi.ID, en)
	}
	return enriched, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.snap.Clone()
}

// Subscribe registers an observer for every subsequent snapshot.
func (e *Engine) Subscribe(obs Observer) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSubID++
	sub := &Subscription{id: e.nextSubID, engine: e, observer: obs}
	e.observers = append(e.observers, sub)
	return sub
}

func (e *Engine) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sub := range e.observers {
		if sub.id == id {
			e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
			return
		}
	}
}

// Ready reports whether the engine accepts requests and has at least one
// provider.
func (e *Engine) Ready() bool {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	return !e.closed && len(e.orch.Registered()) > 0
}

// Sources returns the sources with a registered adapter.
func (e *Engine) Sources() []models.Source {
	return e.orch.Registered()
}

// Close cancels in-flight work and waits for it to finish. Further Discover
// calls return ErrEngineClosed.
func (e *Engine) Close() {
	e.pubMu.Lock()
	if e.closed {
		e.pubMu.Unlock()
		return
	}
	e.closed = true
	e.pubMu.Unlock()

	e.cancel()
	e.wg.Wait()
	e.logger.Debug().Msg("Discovery engine closed")
}

func (e *Engine) run(req *Request) {
	defer e.wg.Done()
	ctx := logging.ContextWithCorrelationID(e.ctx, req.CorrelationID)
	category := string(req.Category)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Uint64("epoch", req.Epoch).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Discovery panicked")
			e.fail(req, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := e.orch.Run(ctx, req, enginePublisher{e})
	elapsed := time.Since(req.StartedAt)
	switch {
	case errors.Is(err, errStale):
		metrics.RecordDiscovery(category, "stale", elapsed, 0)
		e.logger.Debug().Uint64("epoch", req.Epoch).Msg("Discarded superseded discovery")
	case errors.Is(err, context.Canceled) && e.ctx.Err() != nil:
		e.logger.Debug().Uint64("epoch", req.Epoch).Msg("Discovery canceled by shutdown")
	case err != nil:
		e.fail(req, err)
	default:
		outcome := "complete"
		if res.AllFailed {
			outcome = "all_failed"
		}
		metrics.RecordDiscovery(category, outcome, elapsed, len(res.Ranked))
		e.logger.Info().
			Uint64("epoch", req.Epoch).
			Str("category", category).
			Int("pois", len(res.Ranked)).
			Int("sources", len(res.Reports)).
			Bool("all_sources_failed", res.AllFailed).
			Dur("duration", elapsed).
			Msg("Discovery complete")
	}
}

// fail publishes an unexpected-error snapshot if req is still current.
func (e *Engine) fail(req *Request, cause error) {
	published := e.transition(func(st *engineState) bool {
		if !e.orch.IsCurrent(req.Epoch) {
			return false
		}
		st.base = nil
		e.rebuild(st, PhaseError)
		st.snap.Error = unexpectedError(cause)
		return true
	})
	metrics.RecordDiscovery(string(req.Category), "error", time.Since(req.StartedAt), 0)
	if published {
		e.logger.Error().Err(cause).Uint64("epoch", req.Epoch).Msg("Discovery failed")
	}
}

// patch applies an enrichment to every matching POI of the current result.
func (e *Engine) patch(id string, en *models.Enrichment) {
	e.transition(func(st *engineState) bool {
		changed := false
		base := make([]models.POI, len(st.base))
		for i := range st.base {
			base[i] = st.base[i]
			if st.base[i].ID == id {
				base[i] = en.Apply(st.base[i])
				changed = true
			}
		}
		if !changed {
			return false
		}
		st.base = base
		e.rebuild(st, st.snap.Phase)
		return true
	})
}

// transition applies fn to a copy of the state and, when fn returns true,
// installs it and notifies every observer before returning.
func (e *Engine) transition(fn func(st *engineState) bool) bool {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	snap, observers, ok := e.apply(fn)
	if !ok {
		return false
	}
	for _, sub := range observers {
		e.notify(sub, snap)
	}
	return true
}

func (e *Engine) apply(fn func(st *engineState) bool) (Snapshot, []*Subscription, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.st
	if !fn(&next) {
		return Snapshot{}, nil, false
	}
	next.snap.UpdatedAt = time.Now()
	e.st = next
	return next.snap.Clone(), append([]*Subscription(nil), e.observers...), true
}

func (e *Engine) notify(sub *Subscription, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Uint64("subscription", sub.id).Msg("Observer panicked")
		}
	}()
	sub.observer.OnSnapshot(snap)
}

// rebuild recomputes the snapshot lists from the state's base list, filters
// and request. Error, reports and cache flags are reset.
func (e *Engine) rebuild(st *engineState, phase Phase) {
	prev := st.snap
	snap := Snapshot{
		Phase:      phase,
		Epoch:      prev.Epoch,
		SearchText: st.searchText,
	}
	if phase == prev.Phase {
		snap.Error = prev.Error
		snap.Reports = prev.Reports
		snap.SourceSuccess = prev.SourceSuccess
		snap.FromCache = prev.FromCache
		snap.AllSourcesFailed = prev.AllSourcesFailed
	}

	if req := st.req; req != nil {
		origin := req.Origin
		snap.Origin = &origin
		snap.Category = req.Category
		snap.Epoch = req.Epoch

		types := st.typeFilter
		if types == nil {
			types = req.Types
		}
		snap.TypeFilter = types
		snap.Ranked = e.ranker.Rank(st.base, types, req.Priority, req.Category)
		snap.Filtered = filterByText(snap.Ranked, st.searchText)
		snap.Display = Display(snap.Filtered, e.displayLimit)
	}
	st.snap = snap
}

// enginePublisher adapts the engine to the orchestrator's Publisher.
type enginePublisher struct {
	e *Engine
}

func (p enginePublisher) PublishPartial(req *Request, res *Result) bool {
	return p.e.transition(func(st *engineState) bool {
		if !p.e.orch.IsCurrent(req.Epoch) {
			return false
		}
		st.base = res.Merged
		p.e.rebuild(st, PhasePhase1Partial)
		st.snap.Reports = res.Reports
		st.snap.SourceSuccess = successCounts(res.Reports)
		return true
	})
}

func (p enginePublisher) PublishPhase2(req *Request) bool {
	return p.e.transition(func(st *engineState) bool {
		if !p.e.orch.IsCurrent(req.Epoch) {
			return false
		}
		reports, success := st.snap.Reports, st.snap.SourceSuccess
		p.e.rebuild(st, PhasePhase2Loading)
		st.snap.Reports = reports
		st.snap.SourceSuccess = success
		return true
	})
}

func (p enginePublisher) PublishFinal(req *Request, res *Result, commit func()) bool {
	return p.e.transition(func(st *engineState) bool {
		if !p.e.orch.IsCurrent(req.Epoch) {
			return false
		}
		commit()
		st.base = res.Merged
		p.e.rebuild(st, PhaseComplete)
		st.snap.Reports = res.Reports
		st.snap.SourceSuccess = successCounts(res.Reports)
		st.snap.AllSourcesFailed = res.AllFailed
		if res.AllFailed {
			st.snap.Error = allSourcesFailedError()
		}
		return true
	})
}
