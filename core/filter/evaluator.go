package filter

import (
	"strings"

	"go.uber.org/zap"
)

// evaluateCondition resolves the condition's field and applies the operator
// semantics. Malformed operands on numeric and range operators resolve to
// false rather than erroring; an unknown operator logs a warning and resolves
// to true so that a stale saved filter never blanks out a whole view.
func (e *Engine) evaluateCondition(rec Record, cond *FilterCondition, anns AnnotationMap) bool {
	value := ResolveField(rec, cond.Field, anns)

	switch cond.Operator {
	case OperatorEquals:
		return valuesEqual(value, cond.Value.Scalar)
	case OperatorNotEquals:
		return !valuesEqual(value, cond.Value.Scalar)
	case OperatorIn:
		return listContains(cond.Value.List, value)
	case OperatorNotIn:
		return !listContains(cond.Value.List, value)
	case OperatorContains:
		return strings.Contains(foldValue(value), foldValue(cond.Value.Scalar))
	case OperatorNotContains:
		return !strings.Contains(foldValue(value), foldValue(cond.Value.Scalar))
	case OperatorStartsWith:
		return strings.HasPrefix(foldValue(value), foldValue(cond.Value.Scalar))
	case OperatorEndsWith:
		return strings.HasSuffix(foldValue(value), foldValue(cond.Value.Scalar))
	case OperatorGreaterThan:
		fv, ok1 := toFloat64(value)
		cv, ok2 := toFloat64(cond.Value.Scalar)
		return ok1 && ok2 && fv > cv
	case OperatorLessThan:
		fv, ok1 := toFloat64(value)
		cv, ok2 := toFloat64(cond.Value.Scalar)
		return ok1 && ok2 && fv < cv
	case OperatorBetween:
		if cond.Value.Range == nil {
			return false
		}
		fv, ok := toFloat64(value)
		return ok && fv >= cond.Value.Range.Lo && fv <= cond.Value.Range.Hi
	case OperatorIsTrue:
		return value == true
	case OperatorIsFalse:
		return value == false
	case OperatorIsEmpty:
		return isEmptyValue(value)
	case OperatorIsNotEmpty:
		return !isEmptyValue(value)
	default:
		e.logger.Warn("unknown filter operator, treating condition as matching",
			zap.String("operator", string(cond.Operator)),
			zap.String("field", cond.Field))
		return true
	}
}

// evaluateGroup evaluates every condition and every nested group, then
// combines the results under the group's operator. OR is true iff any member
// is true (vacuously false when the group is empty); AND, the default, is
// true iff all members are true (vacuously true when empty). The empty-group
// case only arises on nested groups, since the engine entry points shortcut
// empty top-level groups to "match everything".
func (e *Engine) evaluateGroup(rec Record, group *FilterGroup, anns AnnotationMap) bool {
	results := make([]bool, 0, len(group.Conditions)+len(group.NestedGroups))
	for i := range group.Conditions {
		results = append(results, e.evaluateCondition(rec, &group.Conditions[i], anns))
	}
	for i := range group.NestedGroups {
		results = append(results, e.evaluateGroup(rec, &group.NestedGroups[i], anns))
	}

	if group.Operator == LogicalOr {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

func listContains(list []any, value any) bool {
	for _, candidate := range list {
		if valuesEqual(value, candidate) {
			return true
		}
	}
	return false
}

// foldValue stringifies a value and lowercases it for the case-insensitive
// string operators.
func foldValue(v any) string {
	return strings.ToLower(stringify(v))
}
