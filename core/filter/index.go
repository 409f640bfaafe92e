package filter

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// fieldIndexes holds per-field value buckets over a single record collection,
// identified by its fingerprint. Buckets map a canonical value key to the
// positions of the records carrying it, in collection order. Indexes are
// rebuilt whole whenever the fingerprint changes, never patched in place.
type fieldIndexes struct {
	mu          sync.Mutex
	fingerprint string
	buckets     map[string]map[string][]int
}

// collectionFingerprint is the cheap identity signal for a record collection:
// length plus the ids of the first and last records. Two different collections
// of equal length sharing first and last ids are indistinguishable; callers
// replacing a collection wholesale should clear the engine's caches.
func collectionFingerprint(records []Record) string {
	if len(records) == 0 {
		return "0"
	}
	return fmt.Sprintf("%d:%s:%s", len(records), records[0].ID(), records[len(records)-1].ID())
}

// ensure rebuilds the buckets if they do not describe the given collection,
// and reports whether a rebuild happened.
func (x *fieldIndexes) ensure(records []Record, fields []string) bool {
	fingerprint := collectionFingerprint(records)

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.fingerprint == fingerprint && x.buckets != nil {
		return false
	}

	buckets := make(map[string]map[string][]int, len(fields))
	for _, field := range fields {
		buckets[field] = make(map[string][]int)
	}
	for pos, rec := range records {
		for _, field := range fields {
			// Direct properties only; derived fields are never indexed.
			key := indexKey(rec[field])
			buckets[field][key] = append(buckets[field][key], pos)
		}
	}

	x.fingerprint = fingerprint
	x.buckets = buckets
	return true
}

// lookup returns the positions matching a single indexed condition, or ok
// false when the condition's shape cannot be answered from the index. For the
// in operator the value buckets are unioned and restored to collection order.
func (x *fieldIndexes) lookup(cond *FilterCondition) ([]int, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	bucket, ok := x.buckets[cond.Field]
	if !ok {
		return nil, false
	}

	switch cond.Operator {
	case OperatorEquals:
		if cond.Value.Scalar == nil {
			return nil, false
		}
		return bucket[indexKey(cond.Value.Scalar)], true
	case OperatorIn:
		if cond.Value.List == nil {
			return nil, false
		}
		seen := make(map[int]struct{})
		var positions []int
		for _, candidate := range cond.Value.List {
			for _, pos := range bucket[indexKey(candidate)] {
				if _, dup := seen[pos]; !dup {
					seen[pos] = struct{}{}
					positions = append(positions, pos)
				}
			}
		}
		sort.Ints(positions)
		return positions, true
	default:
		return nil, false
	}
}

func (x *fieldIndexes) drop() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.fingerprint = ""
	x.buckets = nil
}

// dropIf drops the buckets only when they describe the given fingerprint.
func (x *fieldIndexes) dropIf(fingerprint string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.fingerprint == fingerprint {
		x.fingerprint = ""
		x.buckets = nil
	}
}

// indexKey canonicalizes a value into the bucket key space. The classes mirror
// valuesEqual: numeric values of any Go type share one key, strings stay
// distinct from numbers even when they parse as one, and nil gets its own
// class. This keeps index lookups and scan evaluation agreeing on equality.
func indexKey(v any) string {
	if v == nil {
		return "z"
	}
	if f, ok := toFloat64AnyNumeric(v); ok {
		return "n:" + strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s, ok := v.(string); ok {
		return "s:" + s
	}
	return "v:" + stringify(v)
}
