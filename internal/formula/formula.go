// Package formula parses and evaluates salary component formulas such as
// "base*0.5", "B-CA-EA" or "base > 50000 ? 1800 : base*0.12".
//
// Formulas are restricted twice: a character gate rejects anything outside
// the arithmetic/comparison alphabet before parsing, and the grammar itself
// only knows numeric literals, identifiers, operators, the ternary and a
// handful of Math helpers.
package formula

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/mathutil"
)

// Vars maps identifiers (component abbreviations and "base") to values.
type Vars map[string]float64

var safeExpr = regexp.MustCompile(`^[0-9+\-*/()., _a-zA-Z<>!=&|?:%]+$`)

// Check applies the character gate to a formula.
func Check(expr string) error {
	if !safeExpr.MatchString(expr) {
		return fmt.Errorf("%w: %q", ErrUnsupportedSyntax, expr)
	}
	return nil
}

// Expr is a compiled formula.
type Expr struct {
	src    string
	root   node
	idents []string
}

// Compile trims, gates and parses a formula. Formulas longer than
// constants.MaxFormulaLength are rejected before parsing.
func Compile(expr string) (*Expr, error) {
	src := strings.TrimSpace(expr)
	if len(src) > constants.MaxFormulaLength {
		return nil, &SyntaxError{Pos: constants.MaxFormulaLength,
			Msg: fmt.Sprintf("formula longer than %d bytes", constants.MaxFormulaLength)}
	}
	if err := Check(src); err != nil {
		return nil, err
	}
	root, idents, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, root: root, idents: idents}, nil
}

// String returns the trimmed source of the formula.
func (e *Expr) String() string {
	return e.src
}

// Identifiers returns the identifiers referenced by the formula in order of
// first appearance. Helper names are not included.
func (e *Expr) Identifiers() []string {
	return append([]string(nil), e.idents...)
}

// Eval evaluates the formula. A boolean result is not a number and yields 0.
// Unknown identifiers and non-finite results are ErrEvaluation.
func (e *Expr) Eval(vars Vars) (float64, error) {
	v, err := e.root.eval(vars)
	if err != nil {
		return 0, err
	}
	if v.isBool {
		return 0, nil
	}
	if !mathutil.IsFinite(v.num) {
		return 0, evalErrorf("%q produced a non-finite result", e.src)
	}
	return v.num, nil
}

// Evaluate compiles and evaluates a formula in one step.
func Evaluate(expr string, vars Vars) (float64, error) {
	compiled, err := Compile(expr)
	if err != nil {
		return 0, err
	}
	return compiled.Eval(vars)
}

// References returns the identifiers a formula refers to, or nil when the
// formula does not compile.
func References(expr string) []string {
	compiled, err := Compile(expr)
	if err != nil {
		return nil
	}
	return compiled.Identifiers()
}
