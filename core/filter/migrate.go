package filter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// legacyNamespace seeds the deterministic ids of migrated conditions, so that
// migrating the same flat filter twice produces identical trees.
var legacyNamespace = uuid.MustParse("9f2c1a47-83d6-4b5e-a2c9-1e7f60d4b8a3")

// legacyFilterKeys are the flat keys of the pre-tree filter shape.
var legacyFilterKeys = []string{
	"paymentStatus",
	"printStatus",
	"categories",
	"locations",
	"nameSearch",
	"missingSize",
}

// IsLegacyFormat reports whether a persisted filter object uses the older
// flat shape: it lacks the {id, operator, conditions} triple and carries at
// least one of the known flat keys. The check is a heuristic; anything that
// matches neither shape is treated as current-format and evaluated as-is.
func IsLegacyFormat(filters map[string]any) bool {
	if filters == nil {
		return false
	}
	_, hasID := filters["id"]
	_, hasOperator := filters["operator"]
	_, hasConditions := filters["conditions"]
	if hasID && hasOperator && hasConditions {
		return false
	}
	for _, key := range legacyFilterKeys {
		if _, ok := filters[key]; ok {
			return true
		}
	}
	return false
}

// MigrateLegacyFilter converts an old flat filter object into a single
// top-level AND group with one condition per legacy key that is present and
// not set to its "All"/default sentinel. Condition ids are deterministic, so
// repeated migration of the same input is idempotent.
func MigrateLegacyFilter(old map[string]any) FilterGroup {
	group := FilterGroup{
		ID:           legacyID("group"),
		Operator:     LogicalAnd,
		Conditions:   []FilterCondition{},
		NestedGroups: []FilterGroup{},
	}
	if old == nil {
		return group
	}

	if status, ok := old["paymentStatus"].(string); ok && status != "" && status != "All" {
		value := "unpaid"
		if status == "Paid" {
			value = "paid"
		}
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("paymentStatus"),
			Field:    FieldPaymentStatus,
			Operator: OperatorEquals,
			Value:    ScalarValue(value),
			Label:    "Payment: " + status,
		})
	}

	if status, ok := old["printStatus"].(string); ok && status != "" && status != "All" {
		value := "plain"
		if status == "With Print" {
			value = "withPrint"
		}
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("printStatus"),
			Field:    FieldPrintStatus,
			Operator: OperatorEquals,
			Value:    ScalarValue(value),
			Label:    "Print: " + status,
		})
	}

	if values, labels := legacyList(old["categories"]); len(values) > 0 {
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("categories"),
			Field:    FieldCategories,
			Operator: OperatorIn,
			Value:    ConditionValue{List: values},
			Label:    "Categories: " + strings.Join(labels, ", "),
		})
	}

	if values, labels := legacyList(old["locations"]); len(values) > 0 {
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("locations"),
			Field:    "location",
			Operator: OperatorIn,
			Value:    ConditionValue{List: values},
			Label:    "Locations: " + strings.Join(labels, ", "),
		})
	}

	if search, ok := old["nameSearch"].(string); ok && strings.TrimSpace(search) != "" {
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("nameSearch"),
			Field:    FieldName,
			Operator: OperatorContains,
			Value:    ScalarValue(search),
			Label:    fmt.Sprintf("Name contains %q", search),
		})
	}

	if missing, ok := old["missingSize"].(bool); ok && missing {
		group.Conditions = append(group.Conditions, FilterCondition{
			ID:       legacyID("missingSize"),
			Field:    FieldMissingSize,
			Operator: OperatorIsTrue,
			Label:    "Missing shirt size",
		})
	}

	return group
}

// legacyList normalizes a flat multi-select value. A list containing the
// "All" sentinel, like an empty list, means no restriction.
func legacyList(v any) (values []any, labels []string) {
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			label := stringify(item)
			if label == "All" {
				return nil, nil
			}
			values = append(values, item)
			labels = append(labels, label)
		}
	case []string:
		for _, item := range list {
			if item == "All" {
				return nil, nil
			}
			values = append(values, item)
			labels = append(labels, item)
		}
	}
	return values, labels
}

func legacyID(key string) string {
	return uuid.NewSHA1(legacyNamespace, []byte("legacy:"+key)).String()
}
