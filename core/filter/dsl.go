// Package filter implements the declarative filter engine used by the
// registration admin tooling. It evaluates boolean filter trees (nested AND/OR
// groups of field conditions) against in-memory attendee records, with a
// result cache and field indexes layered on top for large collections, and a
// migration path from the older flat filter representation.
package filter

// Record is one tracked entity (an attendee) as a flat document. The engine
// treats records as read-only; the only key it requires is "id".
type Record map[string]any

// ID returns the record's stable identifier as a string.
func (r Record) ID() string {
	return stringify(r["id"])
}

// Annotations holds precomputed secondary facts about a record that are not
// present on the record itself, supplied by the caller per evaluation call.
type Annotations struct {
	HasNotes             bool `json:"hasNotes"`
	NotesCount           int  `json:"notesCount"`
	HasTasks             bool `json:"hasTasks"`
	IncompleteTasksCount int  `json:"incompleteTasksCount"`
}

// AnnotationMap maps a record identifier to its annotations.
type AnnotationMap map[string]Annotations

// LogicalOperator combines the members of a filter group.
type LogicalOperator string

// Supported logical operators. AND is the default when a group carries an
// unrecognized operator.
const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// OperatorKind defines the set of comparison operators a condition can use.
type OperatorKind string

// Supported condition operators.
const (
	OperatorEquals      OperatorKind = "equals"
	OperatorNotEquals   OperatorKind = "notEquals"
	OperatorIn          OperatorKind = "in"
	OperatorNotIn       OperatorKind = "notIn"
	OperatorContains    OperatorKind = "contains"
	OperatorNotContains OperatorKind = "notContains"
	OperatorStartsWith  OperatorKind = "startsWith"
	OperatorEndsWith    OperatorKind = "endsWith"
	OperatorGreaterThan OperatorKind = "greaterThan"
	OperatorLessThan    OperatorKind = "lessThan"
	OperatorBetween     OperatorKind = "between"
	OperatorIsTrue      OperatorKind = "isTrue"
	OperatorIsFalse     OperatorKind = "isFalse"
	OperatorIsEmpty     OperatorKind = "isEmpty"
	OperatorIsNotEmpty  OperatorKind = "isNotEmpty"
)

// knownOperators is the closed set of operators the evaluator understands.
var knownOperators = map[OperatorKind]struct{}{
	OperatorEquals:      {},
	OperatorNotEquals:   {},
	OperatorIn:          {},
	OperatorNotIn:       {},
	OperatorContains:    {},
	OperatorNotContains: {},
	OperatorStartsWith:  {},
	OperatorEndsWith:    {},
	OperatorGreaterThan: {},
	OperatorLessThan:    {},
	OperatorBetween:     {},
	OperatorIsTrue:      {},
	OperatorIsFalse:     {},
	OperatorIsEmpty:     {},
	OperatorIsNotEmpty:  {},
}

// IsKnown reports whether the operator is one of the supported operators.
func (o OperatorKind) IsKnown() bool {
	_, ok := knownOperators[o]
	return ok
}

// ValueRange is the inclusive [Lo, Hi] bound used by the between operator.
type ValueRange struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// ConditionValue is a union type for a condition's operand. Exactly one member
// is set, determined by the operator family: Scalar for equality, comparison
// and string operators, List for set membership, Range for between. Operators
// that take no operand (isTrue, isFalse, isEmpty, isNotEmpty) use the zero
// value.
type ConditionValue struct {
	Scalar any         `json:"scalar,omitempty"`
	List   []any       `json:"list,omitempty"`
	Range  *ValueRange `json:"range,omitempty"`
}

// ScalarValue wraps a scalar operand.
func ScalarValue(v any) ConditionValue {
	return ConditionValue{Scalar: v}
}

// ListValue wraps a set-membership operand.
func ListValue(values ...any) ConditionValue {
	return ConditionValue{List: values}
}

// RangeValue wraps an inclusive numeric range operand.
func RangeValue(lo, hi float64) ConditionValue {
	return ConditionValue{Range: &ValueRange{Lo: lo, Hi: hi}}
}

// FilterCondition is one (field, operator, value) predicate.
type FilterCondition struct {
	ID       string         `json:"id"`
	Field    string         `json:"field"`
	Operator OperatorKind   `json:"operator"`
	Value    ConditionValue `json:"value"`
	Label    string         `json:"label,omitempty"`
}

// FilterGroup combines conditions and one level of nested groups under a
// logical operator. A nested group must not itself contain nested groups;
// ValidateFilterGroup enforces the depth invariant.
type FilterGroup struct {
	ID           string            `json:"id"`
	Operator     LogicalOperator   `json:"operator"`
	Conditions   []FilterCondition `json:"conditions"`
	NestedGroups []FilterGroup     `json:"nestedGroups"`
}

// IsEmpty reports whether the group has neither conditions nor nested groups.
// An empty group means "no filter configured" and matches everything.
func (g *FilterGroup) IsEmpty() bool {
	return g == nil || (len(g.Conditions) == 0 && len(g.NestedGroups) == 0)
}
