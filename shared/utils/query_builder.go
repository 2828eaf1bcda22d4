package utils

import (
	"fmt"
	"strings"
	"time"
)

type QueryBuildResult struct {
	Query string
	Args  []any
}

// UpdateField is one column assignment of a dynamic UPDATE. Order is kept so
// the generated SQL and its args are stable.
type UpdateField struct {
	Column string
	Value  any
}

// BuildDynamicUpdateQuery builds "UPDATE <table> SET ... WHERE <whereField> = $n".
//   - fields: column assignments, in order
//   - allowedFields: columns that may be written; anything else is rejected
//   - autoAddUpdatedAt: appends updated_at = now() unless fields already set it
func BuildDynamicUpdateQuery(
	tableName string,
	fields []UpdateField,
	allowedFields map[string]bool,
	whereField string,
	whereValue any,
	autoAddUpdatedAt bool,
) (*QueryBuildResult, error) {
	setClauses := []string{}
	args := []any{}
	argPosition := 1
	hasUpdatedAt := false

	for _, field := range fields {
		if !allowedFields[field.Column] {
			return nil, fmt.Errorf("field %s is not allowed to be updated", field.Column)
		}
		if field.Column == "updated_at" {
			hasUpdatedAt = true
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.Column, argPosition))
		args = append(args, field.Value)
		argPosition++
	}

	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	if autoAddUpdatedAt && !hasUpdatedAt {
		setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPosition))
		args = append(args, time.Now())
		argPosition++
	}

	args = append(args, whereValue)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		tableName,
		strings.Join(setClauses, ", "),
		whereField,
		argPosition,
	)

	return &QueryBuildResult{
		Query: query,
		Args:  args,
	}, nil
}

// FilterBuilder accumulates AND-ed WHERE clauses with positional ($n) args.
// A clause is written with "?" markers which are numbered on Add.
type FilterBuilder struct {
	clauses []string
	args    []any
}

func (f *FilterBuilder) Add(clause string, values ...any) {
	var sb strings.Builder
	valueIdx := 0
	for _, r := range clause {
		if r == '?' && valueIdx < len(values) {
			f.args = append(f.args, values[valueIdx])
			valueIdx++
			fmt.Fprintf(&sb, "$%d", len(f.args))
			continue
		}
		sb.WriteRune(r)
	}
	f.clauses = append(f.clauses, sb.String())
}

// Where returns " WHERE a AND b", or "" when no clause was added.
func (f *FilterBuilder) Where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

func (f *FilterBuilder) Args() []any {
	return append([]any(nil), f.args...)
}

// Next returns the placeholder the next appended arg will take, e.g. for LIMIT.
func (f *FilterBuilder) Next(offset int) string {
	return fmt.Sprintf("$%d", len(f.args)+offset)
}
