package expression

import "errors"

type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate checks that the expression is syntactically well formed. It does
// not check slot ranges; the builder UI validates syntax before a condition
// count is known. Use ValidateWithCount once the count is available.
func Validate(expr string) ValidationResult {
	if _, err := parse(expr); err != nil {
		return ValidationResult{Valid: false, Error: validationMessage(err)}
	}
	return ValidationResult{Valid: true}
}

// ValidateWithCount validates syntax and additionally checks that every
// referenced slot falls within 1..conditionCount.
func ValidateWithCount(expr string, conditionCount int) ValidationResult {
	root, err := parse(expr)
	if err != nil {
		return ValidationResult{Valid: false, Error: validationMessage(err)}
	}
	if outOfRange := collectOutOfRange(root, conditionCount); len(outOfRange) > 0 {
		rangeErr := &OutOfRangeError{Refs: outOfRange, Max: conditionCount}
		return ValidationResult{Valid: false, Error: rangeErr.Error()}
	}
	return ValidationResult{Valid: true}
}

func validationMessage(err error) string {
	if errors.Is(err, ErrEmptyExpression) {
		return ErrEmptyExpression.Error()
	}
	return err.Error()
}

// ExtractConditionIDs returns the distinct integer literals appearing in the
// expression, in order of first appearance, preserving their textual form.
// Duplicate references are reported once. Tokens are produced by the lexer,
// so digits inside other tokens can never match.
func ExtractConditionIDs(expr string) []string {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, tok := range tokens {
		if tok.kind == tokenNumber && !seen[tok.text] {
			seen[tok.text] = true
			ids = append(ids, tok.text)
		}
	}
	return ids
}
