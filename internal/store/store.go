package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "name = EXCLUDED.name, status = EXCLUDED.status, ..."
func buildUpdateClause(fields map[string]any) string {
	var clause string
	first := true
	for field := range fields {
		if !first {
			clause += ", "
		}
		clause += fmt.Sprintf("%s = EXCLUDED.%s", field, field)
		first = false
	}
	return clause
}
