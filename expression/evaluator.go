package expression

import "sort"

// Evaluate parses the expression and evaluates it against the supplied
// condition results. conditionResults[i] is the truth value of slot i+1.
//
// Evaluate is a pure function and safe for concurrent use. It never silently
// defaults: a malformed expression yields a *SyntaxError and a reference
// outside 1..len(conditionResults) yields a *OutOfRangeError.
func Evaluate(expr string, conditionResults []bool) (bool, error) {
	root, err := parse(expr)
	if err != nil {
		return false, err
	}
	if outOfRange := collectOutOfRange(root, len(conditionResults)); len(outOfRange) > 0 {
		return false, &OutOfRangeError{Refs: outOfRange, Max: len(conditionResults)}
	}
	return eval(root, conditionResults), nil
}

func eval(n node, results []bool) bool {
	switch t := n.(type) {
	case *refNode:
		return results[t.slot-1]
	case *notNode:
		return !eval(t.child, results)
	case *binaryNode:
		if t.op == tokenAnd {
			return eval(t.left, results) && eval(t.right, results)
		}
		return eval(t.left, results) || eval(t.right, results)
	}
	return false
}

// collectOutOfRange returns the distinct referenced slots outside 1..max, in
// ascending order.
func collectOutOfRange(n node, max int) []int {
	seen := make(map[int]bool)
	walkRefs(n, func(slot int) {
		if slot < 1 || slot > max {
			seen[slot] = true
		}
	})
	if len(seen) == 0 {
		return nil
	}
	out := make([]int, 0, len(seen))
	for slot := range seen {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

func walkRefs(n node, fn func(slot int)) {
	switch t := n.(type) {
	case *refNode:
		fn(t.slot)
	case *notNode:
		walkRefs(t.child, fn)
	case *binaryNode:
		walkRefs(t.left, fn)
		walkRefs(t.right, fn)
	}
}
