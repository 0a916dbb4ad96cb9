// Package query builds substring filter plans over the record table.
//
// The criterion a filter applies to is chosen from a fixed allow-list
// (nombre or dni) and compiled from a constant column name, never from caller
// text. The search string itself is always a bound parameter.
package query

import (
	"fmt"
	"strings"

	"github.com/roach88/consultorio/internal/record"
)

// Criterion names the field a substring filter is applied against.
type Criterion string

const (
	ByNombre Criterion = record.Nombre
	ByDNI    Criterion = record.DNI
)

// Criteria is the allow-list, in the order offered to the user.
var Criteria = []Criterion{ByNombre, ByDNI}

// ParseCriterion resolves user input to an allowed criterion.
// An empty string selects ByNombre, the default.
func ParseCriterion(s string) (Criterion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ByNombre, nil
	}
	for _, c := range Criteria {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown search criterion %q: must be one of %v", s, Criteria)
}

// column returns the constant column name for an allowed criterion.
func (c Criterion) column() (string, error) {
	switch c {
	case ByNombre:
		return record.Nombre, nil
	case ByDNI:
		return record.DNI, nil
	}
	return "", fmt.Errorf("criterion %q is not allowed", string(c))
}

// Plan is either "match all" or "substring match on Criterion".
type Plan struct {
	Criterion Criterion
	Substring string
}

// Build returns the plan for a search box value and criterion.
// The query string is trimmed; an empty result means match all.
func Build(q string, c Criterion) Plan {
	return Plan{Criterion: c, Substring: strings.TrimSpace(q)}
}

// All is the match-everything plan.
func All() Plan {
	return Plan{Criterion: ByNombre}
}

// MatchAll reports whether the plan returns every row.
func (p Plan) MatchAll() bool {
	return p.Substring == ""
}

// Matches evaluates the plan against one record in memory.
// It agrees with the compiled SQL for every plan Compile accepts.
func (p Plan) Matches(r record.Patient) bool {
	if p.MatchAll() {
		return true
	}
	v, ok := r.Get(string(p.Criterion))
	return ok && strings.Contains(v, p.Substring)
}

// String describes the plan for logs.
func (p Plan) String() string {
	if p.MatchAll() {
		return "all"
	}
	return fmt.Sprintf("%s contains %q", p.Criterion, p.Substring)
}
