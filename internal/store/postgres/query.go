package postgres

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIndex: 1}
}

// Add appends "column = $n". Empty values are skipped.
func (wb *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = $%d", column, wb.argIndex))
	wb.args = append(wb.args, value)
	wb.argIndex++
}

// AddSearch matches full names case-insensitively. When the query holds
// digits it also matches SNILS numbers with separators removed.
func (wb *whereBuilder) AddSearch(query string) {
	if query == "" {
		return
	}

	name := fmt.Sprintf("full_name ILIKE $%d", wb.argIndex)
	wb.args = append(wb.args, likePattern(query))
	wb.argIndex++

	digits := record.CleanSNILS(query)
	if digits == "" {
		wb.conditions = append(wb.conditions, "("+name+")")
		return
	}

	snils := fmt.Sprintf(`regexp_replace(COALESCE(snils, ''), '\D', '', 'g') LIKE $%d`, wb.argIndex)
	wb.args = append(wb.args, "%"+digits+"%")
	wb.argIndex++
	wb.conditions = append(wb.conditions, "("+snils+" OR "+name+")")
}

// Build returns the WHERE clause (with a leading space) and its arguments.
func (wb *whereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextArgIndex is the placeholder number for the next argument.
func (wb *whereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// likePattern wraps s in % and escapes LIKE wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// filterWhere translates a core filter.
func filterWhere(f core.Filter) *whereBuilder {
	wb := newWhereBuilder()
	if u, ok := f.ScopedUnit(); ok {
		wb.Add("bureau_number", u.String())
	}
	wb.AddSearch(f.Search)
	return wb
}

// recordColumns is the select list matching scanRecord.
var recordColumns = func() string {
	cols := []string{"id", "bureau_number"}
	for _, f := range record.Fields() {
		cols = append(cols, string(f))
	}
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}()

func fetchQuery(f core.Filter) (string, []any) {
	wb := filterWhere(f)
	where, args := wb.Build()

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM records%s ORDER BY mse_date DESC, id DESC", recordColumns, where)

	next := wb.NextArgIndex()
	if f.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT $%d", next)
		args = append(args, f.Limit)
		next++
	}
	if f.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET $%d", next)
		args = append(args, f.Offset)
	}
	return b.String(), args
}

func countQuery(f core.Filter) (string, []any) {
	where, args := filterWhere(f).Build()
	return "SELECT COUNT(*) FROM records" + where, args
}

func insertQuery(owner string, n record.Normalized) (string, []any) {
	cols := []string{"bureau_number"}
	marks := []string{"$1"}
	args := []any{owner}

	for _, f := range n.Fields() {
		v, _ := n.Value(f)
		args = append(args, v)
		cols = append(cols, string(f))
		marks = append(marks, fmt.Sprintf("$%d", len(args)))
	}

	return fmt.Sprintf("INSERT INTO records (%s) VALUES (%s) RETURNING %s",
		strings.Join(cols, ", "), strings.Join(marks, ", "), recordColumns), args
}

// updateQuery sets only the fields present in n. The owning unit is never
// touched and updated_at never moves backwards.
func updateQuery(id int64, n record.Normalized) (string, []any) {
	var sets []string
	var args []any

	for _, f := range n.Fields() {
		v, _ := n.Value(f)
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", f, len(args)))
	}
	sets = append(sets, "updated_at = GREATEST(updated_at, CURRENT_TIMESTAMP)")
	args = append(args, id)

	return fmt.Sprintf("UPDATE records SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), recordColumns), args
}
