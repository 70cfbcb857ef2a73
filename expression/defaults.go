package expression

import (
	"strconv"
	"strings"
)

type Operator string

const OPERATOR_AND Operator = "AND"
const OPERATOR_OR Operator = "OR"

func normalizeOperator(op Operator) Operator {
	if strings.EqualFold(string(op), string(OPERATOR_OR)) {
		return OPERATOR_OR
	}
	return OPERATOR_AND
}

// GenerateDefaultExpression builds a readable default expression referencing
// every slot 1..conditionCount exactly once, combined with the given
// operator. The result is always syntactically valid.
func GenerateDefaultExpression(conditionCount int, op Operator) string {
	op = normalizeOperator(op)
	switch {
	case conditionCount <= 0:
		return ""
	case conditionCount == 1:
		return "1"
	case conditionCount == 2:
		return "1 " + string(op) + " 2"
	case conditionCount == 3 && op == OPERATOR_OR:
		return "(1 AND 2) OR 3"
	}
	parts := make([]string, conditionCount)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(parts, " "+string(op)+" ")
}
