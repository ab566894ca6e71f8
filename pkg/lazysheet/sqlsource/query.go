package sqlsource

import (
	"fmt"
	"strconv"
	"strings"
)

// Query builds a PostgreSQL SELECT. Conditions use ? placeholders, which
// Build renumbers to $1, $2, ... in order.
type Query struct {
	table   string
	columns []string
	where   []condition
	orderBy []string
	limit   int
	offset  int
}

type condition struct {
	sql  string
	args []interface{}
}

// Select starts a query over the given columns; no columns selects *.
func Select(columns ...string) *Query {
	return &Query{columns: columns}
}

func (q *Query) From(table string) *Query {
	q.table = table
	return q
}

// Where adds a condition; conditions are joined with AND.
func (q *Query) Where(cond string, args ...interface{}) *Query {
	q.where = append(q.where, condition{sql: cond, args: args})
	return q
}

func (q *Query) OrderBy(order string) *Query {
	q.orderBy = append(q.orderBy, order)
	return q
}

func (q *Query) Limit(limit int) *Query {
	q.limit = limit
	return q
}

func (q *Query) Offset(offset int) *Query {
	q.offset = offset
	return q
}

// Build renders the statement and its arguments.
func (q *Query) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	if len(q.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(q.table)

	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		n := 1
		for i, c := range q.where {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			parts := strings.Split(c.sql, "?")
			for j, part := range parts {
				sb.WriteString(part)
				if j < len(parts)-1 {
					sb.WriteString("$" + strconv.Itoa(n))
					n++
				}
			}
			args = append(args, c.args...)
		}
	}

	if len(q.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.limit)
	}
	if q.offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.offset)
	}
	return sb.String(), args
}

// BuildSafe is Build with validation: a table is required and every
// condition must receive exactly one argument per placeholder.
func (q *Query) BuildSafe() (string, []interface{}, error) {
	if strings.TrimSpace(q.table) == "" {
		return "", nil, fmt.Errorf("query has no table")
	}
	for _, c := range q.where {
		if got := strings.Count(c.sql, "?"); got != len(c.args) {
			return "", nil, fmt.Errorf("condition %q has %d placeholders but %d arguments", c.sql, got, len(c.args))
		}
	}
	query, args := q.Build()
	return query, args, nil
}
