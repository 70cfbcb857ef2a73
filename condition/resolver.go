// Package condition resolves the ordered condition list of a workflow node
// into the boolean slots consumed by the expression package. Each definition
// is evaluated independently against the flow data; combining the results is
// left entirely to the node's expression.
package condition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/oliveagle/jsonpath"
)

// Resolve evaluates every definition in order. The returned slice is
// positional: index i is the truth value of condition slot i+1.
func Resolve(defs []model.ConditionDef, data map[string]any) []bool {
	results := make([]bool, len(defs))
	for i, def := range defs {
		results[i] = ResolveOne(def, data)
	}
	return results
}

// ResolveOne evaluates a single condition definition. Field conditions read
// submitted field values under $.input, form conditions read top-level flow
// data such as the submission status. A field id may also be a full jsonpath
// expression starting with $.
func ResolveOne(def model.ConditionDef, data map[string]any) bool {
	value, found := lookup(def, data)
	switch def.Operator {
	case model.OP_IS_EMPTY:
		return !found || isEmpty(value)
	case model.OP_IS_NOT_EMPTY:
		return found && !isEmpty(value)
	}
	if !found {
		return false
	}
	switch def.Operator {
	case model.OP_EQUALS:
		return equal(value, def.Value)
	case model.OP_NOT_EQUALS:
		return !equal(value, def.Value)
	case model.OP_CONTAINS:
		return contains(value, def.Value)
	case model.OP_NOT_CONTAINS:
		return !contains(value, def.Value)
	case model.OP_GREATER_THAN:
		return compareNumeric(value, def.Value, func(a, b float64) bool { return a > b })
	case model.OP_LESS_THAN:
		return compareNumeric(value, def.Value, func(a, b float64) bool { return a < b })
	case model.OP_IN:
		return contains(def.Value, value)
	}
	return false
}

func lookup(def model.ConditionDef, data map[string]any) (any, bool) {
	path := def.FieldId
	if !strings.HasPrefix(path, "$") {
		if def.Source == model.CONDITION_SOURCE_FORM {
			path = "$." + path
		} else {
			path = "$.input." + path
		}
	}
	value, err := jsonpath.JsonPathLookup(data, path)
	if err != nil || value == nil {
		return nil, false
	}
	return value, true
}

func equal(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case []any:
		for _, item := range h {
			if equal(item, needle) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range h {
			if equal(item, needle) {
				return true
			}
		}
		return false
	case string:
		return strings.Contains(h, fmt.Sprintf("%v", needle))
	}
	return false
}

func compareNumeric(a, b any, cmp func(a, b float64) bool) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return false
	}
	return cmp(af, bf)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
