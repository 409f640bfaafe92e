package filter

// FieldKind classifies a view-schema field for statistics purposes.
type FieldKind string

const (
	FieldKindSelect      FieldKind = "select"
	FieldKindMultiSelect FieldKind = "multiSelect"
	FieldKindBoolean     FieldKind = "boolean"
	FieldKindNumeric     FieldKind = "numeric"
)

// FieldSpec describes one field of a view schema: its logical name, its kind,
// and for categorical fields the declared option values.
type FieldSpec struct {
	Field   string    `json:"field"`
	Kind    FieldKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
}

// ViewSchema lists the fields a view exposes counters for.
type ViewSchema struct {
	ViewType string      `json:"viewType"`
	Fields   []FieldSpec `json:"fields"`
}

// FieldStats aggregates one field across a collection. Categorical fields get
// per-option occurrence counts, boolean fields a true/false split, numeric
// fields min/max/average over the positive values (zero and absent values are
// excluded from the average, not treated as zero).
type FieldStats struct {
	Options map[string]int `json:"options,omitempty"`
	True    int            `json:"true,omitempty"`
	False   int            `json:"false,omitempty"`
	Min     float64        `json:"min,omitempty"`
	Max     float64        `json:"max,omitempty"`
	Avg     float64        `json:"avg,omitempty"`
	Count   int            `json:"count,omitempty"`
}

// Stats maps field names to their aggregates.
type Stats map[string]FieldStats

// CalculateStats computes per-field counters for a view over a record
// collection, resolving values through the same field resolver the evaluator
// uses. Pure read-only aggregation; callers debounce externally if needed.
func CalculateStats(records []Record, schema ViewSchema, anns AnnotationMap) Stats {
	stats := make(Stats, len(schema.Fields))
	for _, spec := range schema.Fields {
		switch spec.Kind {
		case FieldKindSelect, FieldKindMultiSelect:
			stats[spec.Field] = categoricalStats(records, spec, anns)
		case FieldKindBoolean:
			stats[spec.Field] = booleanStats(records, spec, anns)
		case FieldKindNumeric:
			stats[spec.Field] = numericStats(records, spec, anns)
		}
	}
	return stats
}

func categoricalStats(records []Record, spec FieldSpec, anns AnnotationMap) FieldStats {
	counts := make(map[string]int, len(spec.Options))
	for _, option := range spec.Options {
		counts[option] = 0
	}
	for _, rec := range records {
		value := ResolveField(rec, spec.Field, anns)
		for _, option := range spec.Options {
			if categoricalMatch(value, option, spec.Kind) {
				counts[option]++
			}
		}
	}
	return FieldStats{Options: counts}
}

// categoricalMatch tests a resolved value against one declared option. A
// multi-select value may resolve to a list, in which case membership counts.
func categoricalMatch(value any, option string, kind FieldKind) bool {
	if kind == FieldKindMultiSelect {
		if list, ok := value.([]any); ok {
			for _, item := range list {
				if stringify(item) == option {
					return true
				}
			}
			return false
		}
		if list, ok := value.([]string); ok {
			for _, item := range list {
				if item == option {
					return true
				}
			}
			return false
		}
	}
	return stringify(value) == option
}

func booleanStats(records []Record, spec FieldSpec, anns AnnotationMap) FieldStats {
	var stats FieldStats
	for _, rec := range records {
		if ResolveField(rec, spec.Field, anns) == true {
			stats.True++
		} else {
			stats.False++
		}
	}
	return stats
}

func numericStats(records []Record, spec FieldSpec, anns AnnotationMap) FieldStats {
	var stats FieldStats
	var sum float64
	for _, rec := range records {
		value, ok := toFloat64(ResolveField(rec, spec.Field, anns))
		if !ok || value <= 0 {
			continue
		}
		if stats.Count == 0 || value < stats.Min {
			stats.Min = value
		}
		if stats.Count == 0 || value > stats.Max {
			stats.Max = value
		}
		sum += value
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Avg = sum / float64(stats.Count)
	}
	return stats
}
