package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/a-h/templ"
)

// Editor is everything the editor page shows.
type Editor struct {
	SessionID string
	Table     string
	Message   string
	Writable  bool
	Diff      string
	Key       []string
	CSRFToken string
	Grid      *table.Snapshot
	Changes   *table.Diff
}

// TableView is the read-only page for one fetched table.
type TableView struct {
	Table   string
	Error   string
	QueryMS float64
	Grid    *table.Snapshot
}

const style = `body{font-family:sans-serif;margin:2rem}table{border-collapse:collapse}` +
	`td,th{border:1px solid #ccc;padding:.25rem .5rem}td input{border:0;width:10rem}` +
	`.message{padding:.5rem;background:#f4f4f4;margin:1rem 0}.changes{color:#555}`

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

// text writes escaped content.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) hidden(name, value string) {
	w.raw(`<input type="hidden" name="`, templ.EscapeString(name), `" value="`, templ.EscapeString(value), `">`)
}

func page(title string, body func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(`</title><style>`, style, `</style></head><body>`)
		body(w)
		w.raw(`</body></html>`)
		return w.err
	})
}

func EditorPage(e Editor) templ.Component {
	base := "/editor/" + e.SessionID
	return page("Edit "+e.Table, func(w *writer) {
		w.raw(`<h1>Edit a table</h1>`)

		w.raw(`<form method="post" action="`, templ.EscapeString(base+"/table"), `">`)
		w.hidden("gorilla.csrf.Token", e.CSRFToken)
		w.raw(`<label>Table <input name="table" placeholder="catalog.schema.table" value="`, templ.EscapeString(e.Table), `"></label> `)
		w.raw(`<label>Diff <select name="diff">`)
		for _, opt := range []string{table.StrategyStructural, table.StrategyKeyed} {
			sel := ""
			if opt == e.Diff {
				sel = " selected"
			}
			w.raw(`<option`, sel, `>`, opt, `</option>`)
		}
		w.raw(`</select></label> `)
		w.raw(`<label>Key <input name="key" placeholder="id,other" value="`, templ.EscapeString(strings.Join(e.Key, ",")), `"></label> `)
		w.raw(`<button>Load</button></form>`)

		if e.Message != "" {
			w.raw(`<div class="message">`)
			w.text(e.Message)
			w.raw(`</div>`)
		}

		w.raw(`<form method="post" action="`, templ.EscapeString(base+"/grid"), `">`)
		w.hidden("gorilla.csrf.Token", e.CSRFToken)
		w.hidden("rows", fmt.Sprint(e.Grid.Len()))
		w.raw(`<table><thead><tr>`)
		for _, c := range e.Grid.Columns {
			w.raw(`<th>`)
			w.text(c)
			w.raw(`</th>`)
		}
		w.raw(`<th></th></tr></thead><tbody>`)
		for i, r := range e.Grid.Rows {
			w.raw(`<tr>`)
			for j, v := range r {
				w.raw(`<td><input name="`, fmt.Sprintf("cell-%d-%d", i, j), `" value="`, templ.EscapeString(table.FormatValue(v)), `"></td>`)
			}
			w.raw(`<td><button name="delete" value="`, fmt.Sprint(i), `">Delete</button></td></tr>`)
		}
		w.raw(`</tbody></table><p>`)
		w.raw(`<button name="action" value="apply">Apply edits</button> `)
		w.raw(`<button name="action" value="add">Add row</button> `)
		w.raw(`<button name="action" value="reset">Discard edits</button> `)
		if e.Writable {
			w.raw(`<button name="action" value="save-upsert">Save changes</button> `)
			w.raw(`<button name="action" value="save-overwrite">Overwrite table</button>`)
		}
		w.raw(`</p></form>`)

		if e.Changes != nil {
			w.raw(`<p class="changes">`)
			w.text(fmt.Sprintf("%s diff: %d inserted, %d deleted, %d updated",
				e.Changes.Strategy, len(e.Changes.Inserted), len(e.Changes.Deleted), len(e.Changes.Updated)))
			w.raw(`</p>`)
		}
	})
}

func TablePage(t TableView) templ.Component {
	return page("Read "+t.Table, func(w *writer) {
		w.raw(`<h1>Read a table</h1><form method="get" action="/tables">`)
		w.raw(`<input name="name" placeholder="catalog.schema.table" value="`, templ.EscapeString(t.Table), `"> <button>Read</button></form>`)

		if t.Error != "" {
			w.raw(`<div class="message">`)
			w.text(t.Error)
			w.raw(`</div>`)
		}
		if t.Grid == nil {
			return
		}

		w.raw(`<p class="changes">`)
		w.text(fmt.Sprintf("%d rows in %.1f ms", t.Grid.Len(), t.QueryMS))
		w.raw(`</p><table><thead><tr>`)
		for _, c := range t.Grid.Columns {
			w.raw(`<th>`)
			w.text(c)
			w.raw(`</th>`)
		}
		w.raw(`</tr></thead><tbody>`)
		for _, r := range t.Grid.Rows {
			w.raw(`<tr>`)
			for _, v := range r {
				w.raw(`<td>`)
				w.text(table.FormatValue(v))
				w.raw(`</td>`)
			}
			w.raw(`</tr>`)
		}
		w.raw(`</tbody></table>`)
	})
}

func ErrorPage(title, message string) templ.Component {
	return page(title, func(w *writer) {
		w.raw(`<h1>`)
		w.text(title)
		w.raw(`</h1><div class="message">`)
		w.text(message)
		w.raw(`</div><p><a href="/editor">Start over</a></p>`)
	})
}
