package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLegacyFormat(t *testing.T) {
	tests := []struct {
		name     string
		filters  map[string]any
		expected bool
	}{
		{"nil", nil, false},
		{"flat payment filter", map[string]any{"paymentStatus": "Paid"}, true},
		{"flat list filter", map[string]any{"categories": []any{"Kids"}}, true},
		{"current tree shape", map[string]any{
			"id": "g1", "operator": "AND", "conditions": []any{},
		}, false},
		{"tree shape with legacy leftovers", map[string]any{
			"id": "g1", "operator": "AND", "conditions": []any{}, "paymentStatus": "Paid",
		}, false},
		{"neither shape", map[string]any{"somethingElse": 1}, false},
		{"empty", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLegacyFormat(tt.filters))
		})
	}
}

func TestMigrateLegacyFilter_PaidKidsScenario(t *testing.T) {
	group := MigrateLegacyFilter(map[string]any{
		"paymentStatus": "Paid",
		"categories":    []any{"Kids"},
	})

	assert.Equal(t, LogicalAnd, group.Operator)
	assert.NotEmpty(t, group.ID)
	assert.Empty(t, group.NestedGroups)
	require.Len(t, group.Conditions, 2)

	payment := group.Conditions[0]
	assert.Equal(t, FieldPaymentStatus, payment.Field)
	assert.Equal(t, OperatorEquals, payment.Operator)
	assert.Equal(t, "paid", payment.Value.Scalar)
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, "Payment: Paid", payment.Label)

	categories := group.Conditions[1]
	assert.Equal(t, FieldCategories, categories.Field)
	assert.Equal(t, OperatorIn, categories.Operator)
	assert.Equal(t, []any{"Kids"}, categories.Value.List)
}

func TestMigrateLegacyFilter_SkipsDefaults(t *testing.T) {
	group := MigrateLegacyFilter(map[string]any{
		"paymentStatus": "All",
		"printStatus":   "All",
		"categories":    []any{"All"},
		"locations":     []any{},
		"nameSearch":    "   ",
		"missingSize":   false,
	})
	assert.Empty(t, group.Conditions)
	assert.True(t, group.IsEmpty())
}

func TestMigrateLegacyFilter_AllKeys(t *testing.T) {
	group := MigrateLegacyFilter(map[string]any{
		"paymentStatus": "Unpaid",
		"printStatus":   "With Print",
		"categories":    []any{"Teen", "Adult"},
		"locations":     []string{"Hall A"},
		"nameSearch":    "cruz",
		"missingSize":   true,
	})
	require.Len(t, group.Conditions, 6)

	byField := make(map[string]FilterCondition)
	for _, cond := range group.Conditions {
		byField[cond.Field] = cond
	}

	assert.Equal(t, "unpaid", byField[FieldPaymentStatus].Value.Scalar)
	assert.Equal(t, "withPrint", byField[FieldPrintStatus].Value.Scalar)
	assert.Equal(t, OperatorIn, byField[FieldCategories].Operator)
	assert.Equal(t, []any{"Teen", "Adult"}, byField[FieldCategories].Value.List)
	assert.Equal(t, []any{"Hall A"}, byField["location"].Value.List)
	assert.Equal(t, OperatorContains, byField[FieldName].Operator)
	assert.Equal(t, "cruz", byField[FieldName].Value.Scalar)
	assert.Equal(t, OperatorIsTrue, byField[FieldMissingSize].Operator)
}

func TestMigrateLegacyFilter_DeterministicIDs(t *testing.T) {
	input := map[string]any{"paymentStatus": "Paid", "nameSearch": "ana"}
	first := MigrateLegacyFilter(input)
	second := MigrateLegacyFilter(input)
	assert.Equal(t, first, second)

	ids := map[string]struct{}{first.ID: {}}
	for _, cond := range first.Conditions {
		_, dup := ids[cond.ID]
		assert.False(t, dup, "condition ids must be unique within the group")
		ids[cond.ID] = struct{}{}
	}
}

func TestMigrateLegacyFilter_ResultIsValidAndEvaluates(t *testing.T) {
	group := MigrateLegacyFilter(map[string]any{
		"paymentStatus": "Paid",
		"categories":    []any{"Kids"},
	})

	result := ValidateFilterGroup(&group)
	assert.True(t, result.Valid, "migrated groups must pass validation: %v", result.Issues)

	e := NewEngine(nil)
	records := []Record{
		{"id": 1, "paid": true, "shirtSize": "#8"},
		{"id": 2, "paid": true, "shirtSize": "M"},
		{"id": 3, "paid": false, "shirtSize": "#10"},
	}
	matched := e.ApplyFilterGroup(records, &group, nil)
	require.Len(t, matched, 1)
	assert.Equal(t, 1, matched[0]["id"])
}
