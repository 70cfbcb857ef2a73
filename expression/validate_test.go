package expression

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		valid   bool
		errPart string
	}{
		{name: "empty", expr: "", valid: false, errPart: "Expression is required"},
		{name: "whitespace only", expr: "   \t", valid: false, errPart: "Expression is required"},
		{name: "single reference", expr: "1", valid: true},
		{name: "and or mix", expr: "1 AND (2 OR 3)", valid: true},
		{name: "negated group", expr: "NOT (1 OR 2)", valid: true},
		{name: "dangling operator", expr: "1 AND", valid: false, errPart: "expected condition reference"},
		{name: "leading operator", expr: "AND 1", valid: false, errPart: "expected condition reference"},
		{name: "unbalanced open paren", expr: "(1 AND 2", valid: false, errPart: "unbalanced parentheses"},
		{name: "unbalanced close paren", expr: "1 AND 2)", valid: false, errPart: "unbalanced parentheses"},
		{name: "empty parens", expr: "()", valid: false, errPart: "expected condition reference"},
		{name: "adjacent references", expr: "1 2", valid: false, errPart: "unexpected token"},
		{name: "unknown keyword", expr: "1 XOR 2", valid: false, errPart: "unexpected token"},
		{name: "stray symbol", expr: "1 && 2", valid: false, errPart: "unexpected character"},
		{name: "not without operand", expr: "1 AND NOT", valid: false, errPart: "expected condition reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.expr)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Empty(t, res.Error)
			} else {
				assert.Contains(t, res.Error, tt.errPart)
			}
		})
	}
}

func TestValidateDepthLimit(t *testing.T) {
	deep := strings.Repeat("(", 60) + "1" + strings.Repeat(")", 60)
	res := Validate(deep)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "nesting depth")

	ok := strings.Repeat("(", 30) + "1" + strings.Repeat(")", 30)
	assert.True(t, Validate(ok).Valid)
}

func TestValidateWithCount(t *testing.T) {
	res := ValidateWithCount("1 AND 2", 2)
	assert.True(t, res.Valid)

	res = ValidateWithCount("1 AND 3", 2)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "out of range: 3")
	assert.Contains(t, res.Error, "valid range 1..2")

	res = ValidateWithCount("1 AND", 2)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "expected condition reference")
}

// Any expression that passes Validate must evaluate without a syntax error
// given enough condition results.
func TestValidateEvaluateRoundTrip(t *testing.T) {
	exprs := []string{
		"1",
		"NOT 1",
		"1 AND 2 AND 3",
		"1 OR 2 AND NOT 3",
		"((1 OR 2) AND 3) OR NOT (4 AND 5)",
	}
	results := []bool{true, false, true, false, true}
	for _, expr := range exprs {
		require.True(t, Validate(expr).Valid, expr)
		_, err := Evaluate(expr, results)
		require.NoError(t, err, expr)
	}
}

func TestExtractConditionIDs(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "first appearance order", expr: "(1 AND 2) OR 3", want: []string{"1", "2", "3"}},
		{name: "reversed order preserved", expr: "3 AND 1", want: []string{"3", "1"}},
		{name: "duplicates reported once", expr: "3 AND 3", want: []string{"3"}},
		{name: "textual form preserved", expr: "01 AND 2", want: []string{"01", "2"}},
		{name: "no references", expr: "", want: nil},
		{name: "unparseable input", expr: "1 &&", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractConditionIDs(tt.expr))
		})
	}
}
