package warehouse

import (
	"fmt"
	"strings"

	"github.com/JayJamieson/table-editor/pkg/table"
)

// maxParams keeps multi-row inserts under the smallest engine limit.
const maxParams = 900

// Statement is one parameterised SQL statement.
type Statement struct {
	SQL  string
	Args []any
}

type builder struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func (b *builder) write(parts ...string) {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
}

func (b *builder) param(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

func (b *builder) statement() Statement {
	return Statement{SQL: b.sb.String(), Args: b.args}
}

func (d Dialect) tableName(id table.Identifier) string {
	return id.Quote(d.QuoteIdent)
}

func (d Dialect) columnList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

// SelectAll is the read statement for a table.
func (d Dialect) SelectAll(id table.Identifier) string {
	return "SELECT * FROM " + d.tableName(id)
}

// insertRows writes rows with multi-row VALUES lists. When overwrite is
// set the first statement replaces the table content.
func (d Dialect) insertRows(id table.Identifier, columns []string, rows []table.Row, overwrite bool) []Statement {
	if len(rows) == 0 {
		return nil
	}
	perStatement := maxParams / len(columns)
	if perStatement < 1 {
		perStatement = 1
	}

	var out []Statement
	for start := 0; start < len(rows); start += perStatement {
		end := start + perStatement
		if end > len(rows) {
			end = len(rows)
		}
		b := &builder{d: d}
		if overwrite && start == 0 {
			b.write("INSERT OVERWRITE ", d.tableName(id))
		} else {
			b.write("INSERT INTO ", d.tableName(id))
		}
		b.write(" (", d.columnList(columns), ") VALUES ")
		for i, row := range rows[start:end] {
			if i > 0 {
				b.write(", ")
			}
			b.write("(")
			for j, v := range row {
				if j > 0 {
					b.write(", ")
				}
				b.write(b.param(v))
			}
			b.write(")")
		}
		out = append(out, b.statement())
	}
	return out
}

// where renders a null-safe equality per column, joined with AND.
func (d Dialect) where(b *builder, columns []string, values []any) {
	for i, c := range columns {
		if i > 0 {
			b.write(" AND ")
		}
		b.write(d.QuoteIdent(c), " ", d.nullSafeEq, " ", b.param(values[i]))
	}
}

func (d Dialect) deleteMatching(id table.Identifier, columns []string, values []any) Statement {
	b := &builder{d: d}
	b.write("DELETE FROM ", d.tableName(id), " WHERE ")
	d.where(b, columns, values)
	return b.statement()
}

// upsertRow inserts a row and updates the non-key columns when the key
// already exists.
func (d Dialect) upsertRow(id table.Identifier, columns, key []string, row table.Row) Statement {
	if d.merge {
		return d.mergeRow(id, columns, key, row)
	}

	isKey := map[string]bool{}
	for _, k := range key {
		isKey[k] = true
	}

	b := &builder{d: d}
	b.write("INSERT INTO ", d.tableName(id), " (", d.columnList(columns), ") VALUES (")
	for i, v := range row {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.param(v))
	}
	b.write(") ON CONFLICT (", d.columnList(key), ") DO ")

	var sets []string
	for _, c := range columns {
		if isKey[c] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", d.QuoteIdent(c), d.QuoteIdent(c)))
	}
	if len(sets) == 0 {
		b.write("NOTHING")
	} else {
		b.write("UPDATE SET ", strings.Join(sets, ", "))
	}
	return b.statement()
}

func (d Dialect) mergeRow(id table.Identifier, columns, key []string, row table.Row) Statement {
	b := &builder{d: d}
	b.write("MERGE INTO ", d.tableName(id), " AS target USING (SELECT ")
	for i, c := range columns {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.param(row[i]), " AS ", d.QuoteIdent(c))
	}
	b.write(") AS source ON ")
	for i, k := range key {
		if i > 0 {
			b.write(" AND ")
		}
		b.write("target.", d.QuoteIdent(k), " ", d.nullSafeEq, " source.", d.QuoteIdent(k))
	}
	b.write(" WHEN MATCHED THEN UPDATE SET * WHEN NOT MATCHED THEN INSERT *")
	return b.statement()
}

// OverwritePlan replaces every row of the table with the snapshot rows.
func (d Dialect) OverwritePlan(id table.Identifier, s *table.Snapshot) []Statement {
	if d.insertOverwrite && len(s.Rows) > 0 {
		return d.insertRows(id, s.Columns, s.Rows, true)
	}
	plan := []Statement{{SQL: "DELETE FROM " + d.tableName(id)}}
	return append(plan, d.insertRows(id, s.Columns, s.Rows, false)...)
}

// UpsertPlan writes only the rows of a diff.
func (d Dialect) UpsertPlan(id table.Identifier, diff *table.Diff) []Statement {
	if diff.Strategy == table.StrategyKeyed {
		return d.keyedPlan(id, diff)
	}

	// one value-matched delete per distinct row; Retained restores copies
	var plan []Statement
	var done []table.Row
	for _, r := range diff.Deleted {
		if containsRow(done, r) {
			continue
		}
		done = append(done, r)
		plan = append(plan, d.deleteMatching(id, diff.Columns, r))
	}

	rows := append(append([]table.Row(nil), diff.Inserted...), diff.Retained...)
	return append(plan, d.insertRows(id, diff.Columns, rows, false)...)
}

func (d Dialect) keyedPlan(id table.Identifier, diff *table.Diff) []Statement {
	layout := &table.Snapshot{Columns: diff.Columns}

	var plan []Statement
	for _, r := range diff.Deleted {
		values := make([]any, len(diff.Key))
		for i, k := range diff.Key {
			values[i] = layout.Get(r, k)
		}
		plan = append(plan, d.deleteMatching(id, diff.Key, values))
	}
	for _, c := range diff.Updated {
		plan = append(plan, d.upsertRow(id, diff.Columns, diff.Key, c.New))
	}
	for _, r := range diff.Inserted {
		plan = append(plan, d.upsertRow(id, diff.Columns, diff.Key, r))
	}
	return plan
}

func containsRow(rows []table.Row, r table.Row) bool {
	for _, other := range rows {
		if other.Equal(r) {
			return true
		}
	}
	return false
}
