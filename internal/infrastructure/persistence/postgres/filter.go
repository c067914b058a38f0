package postgres

import (
	"fmt"
	"strings"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
)

// buildWhere renders filter as a WHERE clause. Placeholders start at $start.
//
// Field names are passed as parameters, never spliced into SQL. A key that
// no document carries simply matches nothing.
func buildWhere(filter ports.Filter, start int) (string, []any, error) {
	if len(filter) == 0 {
		return "TRUE", nil, nil
	}

	clauses := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter)*2)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", start+len(args)-1)
	}

	for _, c := range filter {
		if c.Field == "" {
			return "", nil, fmt.Errorf("filter condition without field")
		}

		switch c.Op {
		case ports.OpEq:
			if len(c.Values) != 1 {
				return "", nil, fmt.Errorf("eq on %q needs exactly one value", c.Field)
			}
			if c.Field == entities.FieldID {
				clauses = append(clauses, "id = "+next(c.Values[0]))
				continue
			}
			clauses = append(clauses, fmt.Sprintf("doc ->> %s::text = %s", next(c.Field), next(c.Values[0])))

		case ports.OpIn:
			if len(c.Values) == 0 {
				clauses = append(clauses, "FALSE")
				continue
			}
			if c.Field == entities.FieldID {
				clauses = append(clauses, fmt.Sprintf("id = ANY(%s::text[])", next(c.Values)))
				continue
			}
			// A string value is lifted to a one-element array so scalars and
			// arrays share one membership test.
			field := next(c.Field)
			values := next(c.Values)
			clauses = append(clauses, fmt.Sprintf(
				"(CASE jsonb_typeof(doc -> %[1]s::text) WHEN 'array' THEN doc -> %[1]s::text ELSE jsonb_build_array(doc ->> %[1]s::text) END) ?| %[2]s::text[]",
				field, values,
			))

		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}
