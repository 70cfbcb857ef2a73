package expression

import (
	"strconv"
	"strings"
)

// maxDepth bounds expression nesting. Expressions are short human-authored
// strings; anything deeper than this is rejected rather than risking stack
// exhaustion on pathological input.
const maxDepth = 50

type node interface {
	render(sb *strings.Builder)
	precedence() int
}

const precOr = 1
const precAnd = 2
const precNot = 3
const precRef = 4

type refNode struct {
	slot int
}

func (n *refNode) precedence() int { return precRef }
func (n *refNode) render(sb *strings.Builder) {
	sb.WriteString(strconv.Itoa(n.slot))
}

type notNode struct {
	child node
}

func (n *notNode) precedence() int { return precNot }
func (n *notNode) render(sb *strings.Builder) {
	sb.WriteString("NOT ")
	renderChild(sb, n.child, precNot)
}

type binaryNode struct {
	op    tokenKind // tokenAnd or tokenOr
	left  node
	right node
}

func (n *binaryNode) precedence() int {
	if n.op == tokenAnd {
		return precAnd
	}
	return precOr
}

func (n *binaryNode) render(sb *strings.Builder) {
	prec := n.precedence()
	renderChild(sb, n.left, prec)
	if n.op == tokenAnd {
		sb.WriteString(" AND ")
	} else {
		sb.WriteString(" OR ")
	}
	renderChild(sb, n.right, prec)
}

func renderChild(sb *strings.Builder, child node, parentPrec int) {
	if child.precedence() < parentPrec {
		sb.WriteString("(")
		child.render(sb)
		sb.WriteString(")")
		return
	}
	child.render(sb)
}

func render(n node) string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

type parser struct {
	tokens []token
	pos    int
}

// parse runs the full grammar over the input and fails on leftover tokens.
//
//	expression := orExpr
//	orExpr     := andExpr ( 'OR' andExpr )*
//	andExpr    := notExpr ( 'AND' notExpr )*
//	notExpr    := 'NOT' notExpr | atom
//	atom       := INTEGER | '(' expression ')'
func parse(input string) (node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyExpression
	}
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		if tok.kind == tokenRparen {
			return nil, newSyntaxError(tok.pos, "unbalanced parentheses: unexpected ')' at position %d", tok.pos)
		}
		return nil, newSyntaxError(tok.pos, "unexpected token %q at position %d", tok.text, tok.pos)
	}
	return root, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr(depth int) (node, error) {
	left, err := p.parseAnd(depth)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd(depth)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tokenOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd(depth int) (node, error) {
	left, err := p.parseNot(depth)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseNot(depth)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tokenAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot(depth int) (node, error) {
	if depth > maxDepth {
		return nil, newSyntaxError(p.peek().pos, "expression exceeds maximum nesting depth of %d", maxDepth)
	}
	if p.peek().kind == tokenNot {
		p.next()
		child, err := p.parseNot(depth + 1)
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil
	}
	return p.parseAtom(depth)
}

func (p *parser) parseAtom(depth int) (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return &refNode{slot: tok.slot()}, nil
	case tokenLparen:
		inner, err := p.parseOr(depth + 1)
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokenRparen {
			return nil, newSyntaxError(tok.pos, "unbalanced parentheses: missing ')'")
		}
		return inner, nil
	case tokenEOF:
		return nil, newSyntaxError(-1, "expected condition reference or '(' at end of expression")
	default:
		return nil, newSyntaxError(tok.pos, "expected condition reference or '(' but found %q at position %d", tok.text, tok.pos)
	}
}
