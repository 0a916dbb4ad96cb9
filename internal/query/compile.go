package query

import (
	"fmt"
	"strings"

	"github.com/roach88/consultorio/internal/record"
)

// Table is the single record table.
const Table = "historias"

// Compile converts a plan to parameterized SQL for SQLite.
// Returns (sql, params, error).
//
// Every query selects record.Columns explicitly and orders by id so results
// come back in insertion order. The substring is matched with instr(), which
// is case-sensitive and treats % and _ literally.
func Compile(p Plan) (string, []any, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(record.Columns, ", "), Table)

	var params []any
	if !p.MatchAll() {
		col, err := p.Criterion.column()
		if err != nil {
			return "", nil, err
		}
		sql += fmt.Sprintf(" WHERE instr(%s, ?) > 0", col)
		params = append(params, p.Substring)
	}

	sql += " ORDER BY id ASC"
	return sql, params, nil
}
