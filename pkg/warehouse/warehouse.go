package warehouse

import (
	"context"
	"database/sql"
	"time"

	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Warehouse reads and writes tables through a database/sql connection.
type Warehouse struct {
	db      *sql.DB
	dialect Dialect
}

// Result describes a finished write.
type Result struct {
	Statements   int
	RowsAffected int64
	Duration     time.Duration
}

func New(db *sql.DB, dialect Dialect) *Warehouse {
	return &Warehouse{
		db:      db,
		dialect: dialect,
	}
}

func (w *Warehouse) Dialect() Dialect {
	return w.dialect
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

func (w *Warehouse) ping(ctx context.Context, op string, id table.Identifier) error {
	if err := w.db.PingContext(ctx); err != nil {
		return newError(ConnectionError, op, id.String(), err)
	}
	return nil
}

// Fetch reads every row of a table.
func (w *Warehouse) Fetch(ctx context.Context, id table.Identifier) (*table.Snapshot, error) {
	if id.IsZero() {
		return nil, newError(QueryError, "fetch", "", errors.New("table name is empty"))
	}
	if err := w.ping(ctx, "fetch", id); err != nil {
		return nil, err
	}

	query := w.dialect.SelectAll(id)
	log.Debug().Str("sql", query).Str("driver", w.dialect.Name).Msg("fetch table")

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return nil, newError(QueryError, "fetch", id.String(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, newError(QueryError, "fetch", id.String(), errors.Wrap(err, "failed to get columns"))
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))

		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, newError(QueryError, "fetch", id.String(), errors.Wrap(err, "failed to scan row"))
		}
		data = append(data, values)
	}

	if err = rows.Err(); err != nil {
		return nil, newError(QueryError, "fetch", id.String(), errors.Wrap(err, "error iterating rows"))
	}

	snapshot, err := table.NewSnapshot(columns, data)
	if err != nil {
		return nil, newError(QueryError, "fetch", id.String(), err)
	}
	return snapshot, nil
}

// Overwrite replaces the table content with the snapshot rows.
func (w *Warehouse) Overwrite(ctx context.Context, id table.Identifier, s *table.Snapshot) (*Result, error) {
	return w.Exec(ctx, "overwrite", id, w.dialect.OverwritePlan(id, s))
}

// Upsert writes only the changed rows of a diff.
func (w *Warehouse) Upsert(ctx context.Context, id table.Identifier, diff *table.Diff) (*Result, error) {
	return w.Exec(ctx, "upsert", id, w.dialect.UpsertPlan(id, diff))
}

// Exec runs a plan. Engines with transactions run it atomically; others
// stop at the first failure and report how far they got.
func (w *Warehouse) Exec(ctx context.Context, op string, id table.Identifier, plan []Statement) (*Result, error) {
	start := time.Now()
	res := &Result{Statements: len(plan)}
	if len(plan) == 0 {
		return res, nil
	}
	if id.IsZero() {
		return nil, newError(WriteError, op, "", errors.New("table name is empty"))
	}
	if err := w.ping(ctx, op, id); err != nil {
		return nil, err
	}

	var execer interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	} = w.db

	var tx *sql.Tx
	if w.dialect.Transactions {
		var err error
		tx, err = w.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, newError(WriteError, op, id.String(), errors.Wrap(err, "failed to begin transaction"))
		}
		execer = tx
	}

	for i, st := range plan {
		log.Debug().Str("sql", st.SQL).Int("args", len(st.Args)).Msg(op)

		r, err := execer.ExecContext(ctx, st.SQL, st.Args...)
		if err != nil {
			whErr := newError(WriteError, op, id.String(), err)
			whErr.Total = len(plan)
			whErr.Applied = i
			if tx != nil {
				whErr.Applied = 0
				if rbErr := tx.Rollback(); rbErr != nil {
					log.Error().Err(rbErr).Str("table", id.String()).Msg("Error rolling back transaction")
				}
			}
			return nil, whErr
		}
		if n, err := r.RowsAffected(); err == nil {
			res.RowsAffected += n
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			whErr := newError(WriteError, op, id.String(), errors.Wrap(err, "failed to commit transaction"))
			whErr.Total = len(plan)
			return nil, whErr
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}
