package filter

import (
	"strings"
	"time"

	"github.com/asaidimu/go-events"
	"go.uber.org/zap"
)

// Default tuning for the optimized evaluation path.
const (
	DefaultCacheCapacity  = 100
	DefaultIndexThreshold = 1000
)

// DefaultIndexedFields are the direct record properties the engine keeps
// value indexes for. Derived fields are never indexed.
var DefaultIndexedFields = []string{"shirtSize", "location", "paid", "hasPrint"}

// EngineEventType identifies an engine telemetry event.
type EngineEventType string

const (
	EventCacheHit     EngineEventType = "cache:hit"
	EventCacheMiss    EngineEventType = "cache:miss"
	EventIndexRebuild EngineEventType = "index:rebuild"
	EventIndexLookup  EngineEventType = "index:lookup"
	EventFullScan     EngineEventType = "scan:full"
)

// EngineEvent is emitted on the engine's event bus as queries execute.
// Emission is best-effort observability; the bus is optional.
type EngineEvent struct {
	Type        EngineEventType `json:"type"`
	Timestamp   int64           `json:"timestamp"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Field       string          `json:"field,omitempty"`
	Records     int             `json:"records"`
	Matched     int             `json:"matched"`
}

// Engine evaluates filter groups against record collections. It owns the
// result cache and the field indexes, so independent engines are fully
// isolated; construct one per session.
type Engine struct {
	logger        *zap.Logger
	bus           *events.TypedEventBus[EngineEvent]
	cache         *resultCache
	indexes       *fieldIndexes
	threshold     int
	indexedFields []string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCacheCapacity sets the result cache capacity in entries.
func WithCacheCapacity(capacity int) EngineOption {
	return func(e *Engine) {
		if capacity > 0 {
			e.cache = newResultCache(capacity)
		}
	}
}

// WithIndexThreshold sets the collection size above which the engine considers
// index lookups instead of a linear scan.
func WithIndexThreshold(threshold int) EngineOption {
	return func(e *Engine) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithIndexedFields replaces the set of record properties the engine indexes.
func WithIndexedFields(fields ...string) EngineOption {
	return func(e *Engine) {
		if len(fields) > 0 {
			e.indexedFields = fields
		}
	}
}

// WithEventBus attaches a typed event bus for engine telemetry.
func WithEventBus(bus *events.TypedEventBus[EngineEvent]) EngineOption {
	return func(e *Engine) {
		e.bus = bus
	}
}

// NewEngine creates a filter engine. A nil logger is replaced with a no-op
// logger.
func NewEngine(logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:        logger,
		cache:         newResultCache(DefaultCacheCapacity),
		indexes:       &fieldIndexes{},
		threshold:     DefaultIndexThreshold,
		indexedFields: DefaultIndexedFields,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyFilterGroup filters records down to those matching the group. A nil or
// empty group means "no filter configured" and returns the input unchanged.
// The filter is stable: matching records keep their relative order. The input
// slice is never mutated.
func (e *Engine) ApplyFilterGroup(records []Record, group *FilterGroup, anns AnnotationMap) []Record {
	if group.IsEmpty() {
		return records
	}
	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if e.evaluateGroup(rec, group, anns) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// Match evaluates a single record against a group, with the same empty-group
// shortcut as ApplyFilterGroup.
func (e *Engine) Match(rec Record, group *FilterGroup, anns AnnotationMap) bool {
	if group.IsEmpty() {
		return true
	}
	return e.evaluateGroup(rec, group, anns)
}

// ClearCache invalidates the result cache and drops the field indexes. Call
// it whenever the underlying record collection is replaced wholesale; the
// fingerprint-based staleness check is an approximation, not a guarantee.
func (e *Engine) ClearCache() {
	e.cache.purge()
	e.indexes.drop()
}

// InvalidateCollection drops the cached results computed for the given
// collection and, if the field indexes describe it, the indexes too. Results
// cached for other collections stay warm; use ClearCache for the wholesale
// form. Intended for callers that replace one collection (for example after a
// bulk reload) while the engine keeps serving others.
func (e *Engine) InvalidateCollection(records []Record) {
	fingerprint := collectionFingerprint(records)
	e.cache.invalidate(func(key string) bool {
		return strings.HasPrefix(key, fingerprint+"|")
	})
	e.indexes.dropIf(fingerprint)
}

// CacheStats returns the result cache hit and miss counters.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.cache.stats()
}

func (e *Engine) emit(eventType EngineEventType, fingerprint, field string, records, matched int) {
	if e.bus == nil {
		return
	}
	e.bus.Emit(string(eventType), EngineEvent{
		Type:        eventType,
		Timestamp:   time.Now().UnixMilli(),
		Fingerprint: fingerprint,
		Field:       field,
		Records:     records,
		Matched:     matched,
	})
}
