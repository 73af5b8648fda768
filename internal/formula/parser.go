package formula

import (
	"fmt"

	"github.com/fbts/job-offer/pkg/constants"
)

type node interface {
	eval(vars Vars) (value, error)
}

type numberNode struct {
	val float64
}

type boolNode struct {
	val bool
}

type identNode struct {
	name string
	pos  int
}

type unaryNode struct {
	op      string
	operand node
}

type binaryNode struct {
	op          string
	left, right node
}

type ternaryNode struct {
	cond, then, otherwise node
}

type callNode struct {
	name string
	pos  int
	args []node
}

// parser is a recursive-descent parser. Precedence, lowest first:
// ternary, ||, &&, equality, relational, additive, multiplicative,
// unary, exponent, primary.
type parser struct {
	tokens []token
	pos    int
	depth  int
	idents []string
	seen   map[string]bool
}

func parse(src string) (node, []string, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{tokens: tokens, seen: make(map[string]bool)}
	root, err := p.parseTernary()
	if err != nil {
		return nil, nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	return root, p.idents, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		if tok.kind == tokEOF {
			return tok, &SyntaxError{Pos: tok.pos, Msg: "expected " + what + ", got end of formula"}
		}
		return tok, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected %s, got %q", what, tok.text)}
	}
	return tok, nil
}

// enter tracks one level of nesting; callers defer leave.
func (p *parser) enter() error {
	p.depth++
	if p.depth > constants.MaxFormulaDepth {
		return &SyntaxError{Pos: p.peek().pos, Msg: "formula nested too deeply"}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseTernary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	p.next()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return nil, err
	}
	otherwise, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, then: then, otherwise: otherwise}, nil
}

var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!=", "===", "!=="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

// parseBinary handles the left-associative levels in binaryLevels.
func (p *parser) parseBinary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(binaryLevels[level]...)
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) atUnaryOp() bool {
	tok := p.peek()
	return tok.kind == tokOp && (tok.text == "-" || tok.text == "+" || tok.text == "!")
}

// parseUnary rejects a unary operator applied directly to the base of an
// exponent: -2**2 must be written (-2)**2 or -(2**2).
func (p *parser) parseUnary() (node, error) {
	op, ok := p.acceptOp("-", "+", "!")
	if !ok {
		return p.parseExponent()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var operand node
	var err error
	if p.atUnaryOp() {
		operand, err = p.parseUnary()
	} else {
		operand, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind == tokOp && tok.text == "**" {
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unary " + op + " before ** needs parentheses"}
	}
	return &unaryNode{op: op, operand: operand}, nil
}

func (p *parser) parseExponent() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOp("**"); !ok {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	// right-associative: 2**3**2 == 2**(3**2)
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: "**", left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &numberNode{val: tok.num}, nil
	case tokLParen:
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		switch tok.text {
		case "true":
			return &boolNode{val: true}, nil
		case "false":
			return &boolNode{val: false}, nil
		case constants.HelperNamespace:
			return p.parseHelperCall(tok)
		}
		if p.peek().kind == tokLParen {
			return nil, &SyntaxError{Pos: tok.pos, Msg: "function calls are limited to " + constants.HelperNamespace + " helpers"}
		}
		if !p.seen[tok.text] {
			p.seen[tok.text] = true
			p.idents = append(p.idents, tok.text)
		}
		return &identNode{name: tok.text, pos: tok.pos}, nil
	case tokEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of formula"}
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
}

func (p *parser) parseHelperCall(ns token) (node, error) {
	if _, err := p.expect(tokDot, `"." after `+constants.HelperNamespace); err != nil {
		return nil, err
	}
	name, err := p.expect(tokIdent, "helper name")
	if err != nil {
		return nil, err
	}
	if _, ok := helpers[name.text]; !ok {
		return nil, &SyntaxError{Pos: name.pos, Msg: "unknown helper " + constants.HelperNamespace + "." + name.text}
	}
	if _, err := p.expect(tokLParen, `"("`); err != nil {
		return nil, err
	}
	call := &callNode{name: name.text, pos: ns.pos}
	if p.peek().kind == tokRParen {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
		tok := p.next()
		if tok.kind == tokRParen {
			return call, nil
		}
		if tok.kind != tokComma {
			return nil, &SyntaxError{Pos: tok.pos, Msg: `expected "," or ")" in helper call`}
		}
	}
}
