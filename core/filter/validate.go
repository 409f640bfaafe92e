package filter

import "fmt"

// Issue is one structural violation found in a filter tree.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// ValidationResult reports structural validity of a filter group.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// ValidateFilterGroup checks the structural invariants of a filter tree: the
// group carries an id and a known logical operator, every condition has an
// id, a field, a known operator and an operand of the shape its operator
// family requires, and no nested group contains further nested groups. It
// returns the violations without mutating or repairing the tree; the
// evaluator does not re-run these checks per call.
func ValidateFilterGroup(group *FilterGroup) ValidationResult {
	var issues []Issue
	if group == nil {
		issues = append(issues, Issue{Code: "MISSING_GROUP", Message: "filter group is nil"})
		return ValidationResult{Valid: false, Issues: issues}
	}

	issues = append(issues, validateGroupShape(group, "")...)

	for i := range group.NestedGroups {
		nested := &group.NestedGroups[i]
		path := fmt.Sprintf("nestedGroups[%d]", i)
		issues = append(issues, validateGroupShape(nested, path)...)
		if len(nested.NestedGroups) > 0 {
			issues = append(issues, Issue{
				Code:    "NESTING_TOO_DEEP",
				Message: fmt.Sprintf("nested group %d must not contain nested groups", i),
				Path:    path,
			})
		}
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

func validateGroupShape(group *FilterGroup, path string) []Issue {
	var issues []Issue
	if group.ID == "" {
		issues = append(issues, Issue{Code: "MISSING_GROUP_ID", Message: "group has no id", Path: path})
	}
	if group.Operator != LogicalAnd && group.Operator != LogicalOr {
		issues = append(issues, Issue{
			Code:    "INVALID_OPERATOR",
			Message: fmt.Sprintf("group operator must be %q or %q, got %q", LogicalAnd, LogicalOr, group.Operator),
			Path:    buildPath(path, "operator"),
		})
	}
	for i := range group.Conditions {
		issues = append(issues, validateCondition(&group.Conditions[i], buildPath(path, fmt.Sprintf("conditions[%d]", i)))...)
	}
	return issues
}

func validateCondition(cond *FilterCondition, path string) []Issue {
	var issues []Issue
	if cond.ID == "" {
		issues = append(issues, Issue{Code: "MISSING_CONDITION_ID", Message: "condition has no id", Path: path})
	}
	if cond.Field == "" {
		issues = append(issues, Issue{Code: "MISSING_FIELD", Message: "condition has no field", Path: buildPath(path, "field")})
	}
	if !cond.Operator.IsKnown() {
		issues = append(issues, Issue{
			Code:    "UNKNOWN_OPERATOR",
			Message: fmt.Sprintf("unknown operator %q", cond.Operator),
			Path:    buildPath(path, "operator"),
		})
		return issues
	}

	switch cond.Operator {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith, OperatorGreaterThan, OperatorLessThan:
		if cond.Value.Scalar == nil {
			issues = append(issues, Issue{
				Code:    "MISSING_VALUE",
				Message: fmt.Sprintf("operator %q requires a scalar value", cond.Operator),
				Path:    buildPath(path, "value"),
			})
		}
	case OperatorIn, OperatorNotIn:
		if cond.Value.List == nil {
			issues = append(issues, Issue{
				Code:    "MISSING_VALUE",
				Message: fmt.Sprintf("operator %q requires a list value", cond.Operator),
				Path:    buildPath(path, "value"),
			})
		}
	case OperatorBetween:
		if cond.Value.Range == nil {
			issues = append(issues, Issue{
				Code:    "MISSING_VALUE",
				Message: "operator \"between\" requires a range value",
				Path:    buildPath(path, "value"),
			})
		}
	}
	return issues
}

func buildPath(basePath, element string) string {
	if basePath == "" {
		return element
	}
	return basePath + "." + element
}
