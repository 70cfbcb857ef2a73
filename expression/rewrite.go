package expression

// RemoveCondition rewrites an expression after the condition at 1-based
// position removed is deleted from the backing list: references to the
// removed slot are dropped, references above it are decremented, and emptied
// operators and groups collapse away. The rewrite operates on the parsed
// tree, so the result is always grammatical. If the input does not parse or
// nothing survives the removal, a default expression for newCount conditions
// is returned instead.
func RemoveCondition(expr string, removed int, newCount int, op Operator) string {
	root, err := parse(expr)
	if err != nil {
		return GenerateDefaultExpression(newCount, op)
	}
	rewritten := removeSlot(root, removed)
	if rewritten == nil {
		return GenerateDefaultExpression(newCount, op)
	}
	return render(rewritten)
}

// removeSlot returns the subtree with the slot removed, or nil when the
// subtree vanishes entirely.
func removeSlot(n node, removed int) node {
	switch t := n.(type) {
	case *refNode:
		if t.slot == removed {
			return nil
		}
		if t.slot > removed {
			return &refNode{slot: t.slot - 1}
		}
		return &refNode{slot: t.slot}
	case *notNode:
		child := removeSlot(t.child, removed)
		if child == nil {
			return nil
		}
		return &notNode{child: child}
	case *binaryNode:
		left := removeSlot(t.left, removed)
		right := removeSlot(t.right, removed)
		if left == nil {
			return right
		}
		if right == nil {
			return left
		}
		return &binaryNode{op: t.op, left: left, right: right}
	}
	return nil
}
