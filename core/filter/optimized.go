package filter

import (
	"encoding/json"

	"go.uber.org/zap"
)

// QueryOptions tune one optimized evaluation call.
type QueryOptions struct {
	UseCache     bool `json:"useCache"`
	UseIndexes   bool `json:"useIndexes"`
	ForceRefresh bool `json:"forceRefresh"`
}

// DefaultQueryOptions enables both the cache and the indexes.
func DefaultQueryOptions() *QueryOptions {
	return &QueryOptions{UseCache: true, UseIndexes: true}
}

// ApplyFilterGroupOptimized dispatches a query to the cheapest applicable
// path: the result cache, an index lookup for large collections with a single
// indexable condition, or the full scan of ApplyFilterGroup. The index and
// scan paths return the same result set for any query that qualifies for
// indexing. Nil options mean defaults.
func (e *Engine) ApplyFilterGroupOptimized(records []Record, group *FilterGroup, anns AnnotationMap, opts *QueryOptions) []Record {
	if group.IsEmpty() {
		return records
	}
	if opts == nil {
		opts = DefaultQueryOptions()
	}

	fingerprint := collectionFingerprint(records)
	key := fingerprint + "|" + serializeGroup(group)

	if opts.UseCache && !opts.ForceRefresh {
		if cached, ok := e.cache.get(key); ok {
			e.emit(EventCacheHit, fingerprint, "", len(records), len(cached))
			return cached
		}
		e.emit(EventCacheMiss, fingerprint, "", len(records), 0)
	}

	result, ok := e.tryIndexPath(records, group, fingerprint, opts)
	if !ok {
		e.emit(EventFullScan, fingerprint, "", len(records), 0)
		result = e.ApplyFilterGroup(records, group, anns)
	}

	if opts.UseCache {
		e.cache.set(key, result)
	}
	return result
}

// tryIndexPath answers the query from the field indexes when the collection
// is large and the query is a single equals/in condition on an indexed field.
// It fails open: any shape it cannot answer falls back to the scan path.
func (e *Engine) tryIndexPath(records []Record, group *FilterGroup, fingerprint string, opts *QueryOptions) ([]Record, bool) {
	if !opts.UseIndexes || len(records) <= e.threshold {
		return nil, false
	}
	if len(group.Conditions) != 1 || len(group.NestedGroups) != 0 {
		return nil, false
	}
	cond := &group.Conditions[0]
	if cond.Operator != OperatorEquals && cond.Operator != OperatorIn {
		return nil, false
	}
	if !e.isIndexedField(cond.Field) {
		return nil, false
	}

	if e.indexes.ensure(records, e.indexedFields) {
		e.emit(EventIndexRebuild, fingerprint, cond.Field, len(records), 0)
	}
	positions, ok := e.indexes.lookup(cond)
	if !ok {
		return nil, false
	}

	result := make([]Record, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(records) {
			// Stale index despite a matching fingerprint; fail open to a scan.
			e.logger.Warn("index position out of range, falling back to scan",
				zap.String("field", cond.Field), zap.Int("position", pos))
			return nil, false
		}
		result = append(result, records[pos])
	}
	e.emit(EventIndexLookup, fingerprint, cond.Field, len(records), len(result))
	return result, true
}

func (e *Engine) isIndexedField(field string) bool {
	for _, f := range e.indexedFields {
		if f == field {
			return true
		}
	}
	return false
}

// serializeGroup renders the canonical cache-key form of a filter tree.
// Struct field order is fixed, so identical trees always serialize alike.
func serializeGroup(group *FilterGroup) string {
	data, err := json.Marshal(group)
	if err != nil {
		// Filter trees are plain data; marshaling cannot realistically fail.
		return group.ID
	}
	return string(data)
}
