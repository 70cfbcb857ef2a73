package expression

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLparen
	tokenRparen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenize splits an expression into tokens. Keywords are case-insensitive,
// whitespace is ignored. An unrecognized token is a syntax error.
func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLparen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRparen, text: ")", pos: i})
			i++
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[start:i]), pos: start})
		case unicode.IsLetter(r):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			var kind tokenKind
			switch {
			case strings.EqualFold(word, "AND"):
				kind = tokenAnd
			case strings.EqualFold(word, "OR"):
				kind = tokenOr
			case strings.EqualFold(word, "NOT"):
				kind = tokenNot
			default:
				return nil, newSyntaxError(start, "unexpected token %q at position %d", word, start)
			}
			tokens = append(tokens, token{kind: kind, text: word, pos: start})
		default:
			return nil, newSyntaxError(i, "unexpected character %q at position %d", string(r), i)
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}

func (t token) slot() int {
	n, _ := strconv.Atoi(t.text)
	return n
}
