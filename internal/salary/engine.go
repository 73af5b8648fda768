package salary

import (
	"fmt"

	"github.com/fbts/job-offer/internal/formula"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/fbts/job-offer/pkg/mathutil"
	"go.uber.org/zap"
)

// Context maps identifiers to their current value during one pass.
type Context = formula.Vars

// Warning reports a row whose formula could not be evaluated. It is never
// fatal to the recomputation.
type Warning struct {
	RowRef
	Formula string `json:"formula"`
	Err     error  `json:"-"`
}

// Message is the operator-facing text of the warning.
func (w Warning) Message() string {
	return fmt.Sprintf("Could not evaluate formula for %s.", w.Label)
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %s[%d] %q: %v", w.Message(), w.Table, w.Index, w.Formula, w.Err)
}

// Unwrap exposes the underlying formula error.
func (w Warning) Unwrap() error {
	return w.Err
}

// Result summarises one recomputation.
type Result struct {
	Passes     int       `json:"passes"`
	Computed   int       `json:"computed"`
	Warnings   []Warning `json:"warnings,omitempty"`
	Unresolved []RowRef  `json:"unresolved,omitempty"`
}

// Engine fills blank component amounts from formulas.
type Engine struct {
	logger    *zap.Logger
	maxPasses int
}

// NewEngine creates an engine with the standard pass budget.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, maxPasses: constants.MaxFormulaPasses}
}

// BuildContext returns a fresh context holding base and every row's current
// amount, earnings first.
func BuildContext(doc *Document) Context {
	ctx := Context{constants.BaseIdentifier: doc.Base.Float()}
	for _, table := range []Table{Earnings, Deductions} {
		for _, row := range doc.Rows(table) {
			if row.Abbr != "" {
				ctx[row.Abbr] = row.Amount.Float()
			}
		}
	}
	return ctx
}

// ComputeRowIfBlank evaluates the row's formula when its amount is blank,
// stores the amount rounded to 2 decimals and publishes it in ctx. It
// returns whether the row was written. A failed evaluation leaves the row
// untouched and is returned as a warning.
func ComputeRowIfBlank(row *Row, ctx Context) (bool, error) {
	if !row.Amount.IsBlank() || !row.HasFormula() {
		return false, nil
	}

	raw, err := formula.Evaluate(row.Formula, ctx)
	if err != nil {
		return false, err
	}

	row.Amount = NewAmount(mathutil.Round(raw))
	if row.Abbr != "" {
		ctx[row.Abbr] = row.Amount.Float()
	}
	return true, nil
}

// RecomputeAllBlankAmounts runs up to the pass budget over the document,
// stopping after the first pass that writes nothing. Circular references are
// not detected; their rows simply stay blank.
func (e *Engine) RecomputeAllBlankAmounts(doc *Document) Result {
	var result Result
	warned := make(map[RowRef]bool)

	for pass := 0; pass < e.maxPasses; pass++ {
		result.Passes++
		ctx := BuildContext(doc)
		changed := false

		for _, table := range []Table{Earnings, Deductions} {
			rows := doc.Rows(table)
			for i := range rows {
				did, err := ComputeRowIfBlank(&rows[i], ctx)
				if err != nil {
					ref := RowRef{Table: table, Index: i, Label: rows[i].Label()}
					if !warned[ref] {
						warned[ref] = true
						w := Warning{RowRef: ref, Formula: rows[i].Formula, Err: err}
						result.Warnings = append(result.Warnings, w)
						e.logger.Warn(w.Message(),
							zap.String("op", "salary.RecomputeAllBlankAmounts"),
							zap.String("table", string(table)),
							zap.Int("index", i),
							zap.String("formula", rows[i].Formula),
							zap.Error(err),
						)
					}
					continue
				}
				if did {
					changed = true
					result.Computed++
				}
			}
		}

		if !changed {
			break
		}
	}

	result.Unresolved = unresolved(doc)
	e.logger.Debug("recomputed blank amounts",
		zap.String("op", "salary.RecomputeAllBlankAmounts"),
		zap.Int("passes", result.Passes),
		zap.Int("computed", result.Computed),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("unresolved", len(result.Unresolved)),
	)
	return result
}

// Recompute is the pure form of RecomputeAllBlankAmounts: the inputs are
// copied and left untouched, so independent documents can be recomputed
// concurrently.
func (e *Engine) Recompute(base Amount, earnings, deductions []Row) ([]Row, []Row, Result) {
	doc := Document{Base: base, Earnings: earnings, Deductions: deductions}.Clone()
	result := e.RecomputeAllBlankAmounts(&doc)
	return doc.Earnings, doc.Deductions, result
}

// unresolved lists formula rows that are still blank.
func unresolved(doc *Document) []RowRef {
	var refs []RowRef
	for _, table := range []Table{Earnings, Deductions} {
		for i, row := range doc.Rows(table) {
			if row.HasFormula() && row.Amount.IsBlank() {
				refs = append(refs, RowRef{Table: table, Index: i, Label: row.Label()})
			}
		}
	}
	return refs
}
