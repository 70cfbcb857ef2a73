// Package expression parses and evaluates the logical expressions that
// combine a condition node's individually evaluated conditions into one
// branch decision.
//
// An expression references conditions by their 1-based position in the
// node's condition list and combines them with AND, OR, NOT and parentheses:
//
//	(1 AND 2) OR NOT 3
//
// Keywords are case-insensitive, whitespace is ignored, and precedence is
// NOT over AND over OR. There are no implicit operators: two adjacent
// references are a syntax error.
//
// Validate gives syntax-only feedback for the builder UI, Evaluate resolves
// an expression against a slice of condition results, and RemoveCondition
// renumbers an expression after a condition is deleted. All functions are
// pure and safe for concurrent use.
package expression
