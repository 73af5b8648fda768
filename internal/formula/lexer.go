package formula

import (
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokQuestion
	tokColon
)

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

// operators are matched longest first.
var operators = []string{
	"===", "!==",
	"**", "==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!",
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			if i < len(src) && isIdentStart(src[i]) {
				return nil, &SyntaxError{Pos: i, Msg: "identifier directly after number"}
			}
			n, err := strconv.ParseFloat(src[start:i], 64)
			if err != nil {
				return nil, &SyntaxError{Pos: start, Msg: "invalid number " + src[start:i]}
			}
			tokens = append(tokens, token{kind: tokNumber, pos: start, text: src[start:i], num: n})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, pos: start, text: src[start:i]})
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokComma, pos: i, text: ","})
			i++
		case c == '.':
			tokens = append(tokens, token{kind: tokDot, pos: i, text: "."})
			i++
		case c == '?':
			tokens = append(tokens, token{kind: tokQuestion, pos: i, text: "?"})
			i++
		case c == ':':
			tokens = append(tokens, token{kind: tokColon, pos: i, text: ":"})
			i++
		default:
			op := matchOperator(src[i:])
			if op == "" {
				switch c {
				case '=':
					return nil, &SyntaxError{Pos: i, Msg: "assignment is not supported"}
				case '&', '|':
					return nil, &SyntaxError{Pos: i, Msg: "bitwise operators are not supported"}
				}
				return nil, &SyntaxError{Pos: i, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
			}
			tokens = append(tokens, token{kind: tokOp, pos: i, text: op})
			i += len(op)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func matchOperator(s string) string {
	for _, op := range operators {
		if len(s) >= len(op) && s[:len(op)] == op {
			return op
		}
	}
	return ""
}
