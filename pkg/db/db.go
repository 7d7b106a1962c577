package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// DefaultSaveLimit caps ListSaves when no limit is given.
const DefaultSaveLimit = 50

// DB is the save log: every write-back attempt against a warehouse table.
type DB struct {
	conn *sql.DB
}

func New(dbURL string) (*DB, error) {
	conn, err := sql.Open("libsql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetConnMaxIdleTime(9 * time.Second)

	return NewWithConn(conn)
}

// NewWithConn uses an already opened connection and makes sure the save
// log table exists.
func NewWithConn(conn *sql.DB) (*DB, error) {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS save_log (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			table_name TEXT NOT NULL,
			strategy TEXT NOT NULL,
			diff_strategy TEXT NOT NULL,
			inserted INTEGER NOT NULL,
			deleted INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			statements INTEGER NOT NULL,
			rows_affected BIGINT NOT NULL,
			duration_ms BIGINT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create save_log: %w", err)
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordSave appends rec to the log, filling in ID and CreatedAt when unset.
func (db *DB) RecordSave(ctx context.Context, rec *models.SaveRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO save_log (id, session_id, table_name, strategy, diff_strategy,
			inserted, deleted, updated, statements, rows_affected, duration_ms,
			status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SessionID, rec.TableName, rec.Strategy, rec.DiffStrategy,
		rec.Inserted, rec.Deleted, rec.Updated, rec.Statements, rec.RowsAffected, rec.DurationMS,
		rec.Status, rec.Error, rec.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to record save: %w", err)
	}
	return nil
}

// GetSave returns one log entry by id.
func (db *DB) GetSave(ctx context.Context, id string) (*models.SaveRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, session_id, table_name, strategy, diff_strategy, inserted, deleted, updated,
			statements, rows_affected, duration_ms, status, error, created_at
		FROM save_log
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get save: %w", err)
	}
	defer rows.Close()

	saves, err := scanSaves(rows)
	if err != nil {
		return nil, err
	}
	if len(saves) == 0 {
		return nil, fmt.Errorf("save with ID %s not found: %w", id, sql.ErrNoRows)
	}
	return &saves[0], nil
}

// ListSaves returns the most recent entries first, optionally only those
// for one table.
func (db *DB) ListSaves(ctx context.Context, tableName string, limit int) ([]models.SaveRecord, error) {
	if limit <= 0 {
		limit = DefaultSaveLimit
	}

	query := `
		SELECT id, session_id, table_name, strategy, diff_strategy, inserted, deleted, updated,
			statements, rows_affected, duration_ms, status, error, created_at
		FROM save_log`
	var args []any
	if tableName != "" {
		query += " WHERE table_name = ?"
		args = append(args, tableName)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query saves: %w", err)
	}
	defer rows.Close()

	return scanSaves(rows)
}

func scanSaves(rows *sql.Rows) ([]models.SaveRecord, error) {
	saves := []models.SaveRecord{}
	for rows.Next() {
		var rec models.SaveRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.TableName, &rec.Strategy, &rec.DiffStrategy,
			&rec.Inserted, &rec.Deleted, &rec.Updated, &rec.Statements, &rec.RowsAffected, &rec.DurationMS,
			&rec.Status, &rec.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}

		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		rec.CreatedAt = t
		saves = append(saves, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saves: %w", err)
	}
	return saves, nil
}

// IsNotFound reports whether err came from a lookup that matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
