// Package configprocessor provides shared configuration processing utilities:
// static checks over the formulas of salary structures and job offers.
package configprocessor

import (
	"sort"
	"strings"

	"github.com/fbts/job-offer/internal/formula"
	"github.com/fbts/job-offer/pkg/constants"
)

// RowInfo represents one component row of a configured document
type RowInfo struct {
	Label   string
	Abbr    string
	Formula string
}

// DocumentInfo represents a salary structure or job offer in the configuration
type DocumentInfo struct {
	Kind string // "Salary structure" or "Job offer"
	Name string
	Rows []RowInfo
	// Structure names the salary structure the document pulls rows from, if any.
	Structure string
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateDocuments checks every document and returns warnings. structures
// lists the salary structures documents may refer to; their rows are in
// scope for the formulas of documents that reference them.
func (p *Processor) ValidateDocuments(structures []DocumentInfo, documents []DocumentInfo) []string {
	var warnings []string

	byName := make(map[string]DocumentInfo, len(structures))
	for _, s := range structures {
		byName[s.Name] = s
	}

	for _, doc := range append(append([]DocumentInfo{}, structures...), documents...) {
		prefix := doc.Kind + " '" + doc.Name + "'"

		var inherited []RowInfo
		if doc.Structure != "" {
			s, ok := byName[doc.Structure]
			if !ok {
				warnings = append(warnings, prefix+" references unknown salary structure '"+doc.Structure+"'")
			}
			inherited = s.Rows
		}

		if len(doc.Rows) > 0 {
			warnings = append(warnings, p.validateRows(prefix, doc.Rows, inherited)...)
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}

// validateRows checks rows. inherited rows come from the referenced
// structure: they are in scope and take part in duplicate and cycle checks,
// but their own formulas are reported against the structure, not here.
func (p *Processor) validateRows(prefix string, rows, inherited []RowInfo) []string {
	var warnings []string

	all := append(append([]RowInfo{}, rows...), inherited...)
	known := map[string]bool{constants.BaseIdentifier: true}
	own := make(map[string]bool)
	for i, row := range all {
		if row.Abbr == "" {
			continue
		}
		isOwn := i < len(rows)
		if known[row.Abbr] && row.Abbr != constants.BaseIdentifier && (isOwn || own[row.Abbr]) {
			warnings = append(warnings, prefix+": abbreviation '"+row.Abbr+"' is used by more than one component")
		}
		known[row.Abbr] = true
		if isOwn {
			own[row.Abbr] = true
		}
	}

	graph := make(map[string][]string)
	for i, row := range all {
		if strings.TrimSpace(row.Formula) == "" {
			continue
		}
		label := row.Label
		if row.Abbr != "" {
			label = row.Abbr
		}
		report := i < len(rows)
		expr, err := formula.Compile(row.Formula)
		if err != nil {
			if report {
				warnings = append(warnings, prefix+": formula for '"+label+"' is not supported ("+err.Error()+")")
			}
			continue
		}
		for _, ident := range expr.Identifiers() {
			if !known[ident] {
				if report {
					warnings = append(warnings, prefix+": formula for '"+label+"' references unknown '"+ident+"'")
				}
				continue
			}
			if row.Abbr != "" && ident != constants.BaseIdentifier {
				graph[row.Abbr] = append(graph[row.Abbr], ident)
			}
		}
	}

	for _, cycle := range FindCycles(graph) {
		if !touches(cycle, own) {
			continue
		}
		warnings = append(warnings, prefix+": formulas form a cycle and will stay at zero ("+strings.Join(cycle, " -> ")+")")
	}
	return warnings
}

func touches(cycle []string, nodes map[string]bool) bool {
	for _, n := range cycle {
		if nodes[n] {
			return true
		}
	}
	return false
}

// FindCycles returns each dependency cycle in graph once, as the path from
// its smallest node back to itself. Self references are cycles of length one.
func FindCycles(graph map[string][]string) [][]string {
	nodes := make([]string, 0, len(graph))
	for n := range graph {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	reported := make(map[string]bool)
	var cycles [][]string
	var stack []string

	var visit func(n string)
	visit = func(n string) {
		state[n] = active
		stack = append(stack, n)
		for _, next := range graph[n] {
			switch state[next] {
			case unvisited:
				visit(next)
			case active:
				start := 0
				for i := range stack {
					if stack[i] == next {
						start = i
						break
					}
				}
				cycle := canonicalCycle(stack[start:])
				key := strings.Join(cycle, "\x00")
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
	}

	for _, n := range nodes {
		if state[n] == unvisited {
			visit(n)
		}
	}
	return cycles
}

// canonicalCycle rotates a cycle to start at its smallest node and closes it.
func canonicalCycle(path []string) []string {
	first := 0
	for i := range path {
		if path[i] < path[first] {
			first = i
		}
	}
	cycle := make([]string, 0, len(path)+1)
	cycle = append(cycle, path[first:]...)
	cycle = append(cycle, path[:first]...)
	return append(cycle, cycle[0])
}
