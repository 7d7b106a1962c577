package models

import (
	"time"
)

// SaveRecord is one entry of the save log.
type SaveRecord struct {
	ID           string    `json:"id" db:"id"`
	SessionID    string    `json:"session_id" db:"session_id"`
	TableName    string    `json:"table_name" db:"table_name"`
	Strategy     string    `json:"strategy" db:"strategy"`
	DiffStrategy string    `json:"diff_strategy" db:"diff_strategy"`
	Inserted     int       `json:"inserted" db:"inserted"`
	Deleted      int       `json:"deleted" db:"deleted"`
	Updated      int       `json:"updated" db:"updated"`
	Statements   int       `json:"statements" db:"statements"`
	RowsAffected int64     `json:"rows_affected" db:"rows_affected"`
	DurationMS   int64     `json:"duration_ms" db:"duration_ms"`
	Status       string    `json:"status" db:"status"`
	Error        string    `json:"error,omitempty" db:"error"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

const (
	SaveStatusOK     = "ok"
	SaveStatusFailed = "failed"
)

type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type DataResponseBase struct {
	OK      bool     `json:"ok"`
	Table   string   `json:"table"`
	QueryMS float64  `json:"query_ms"`
	Columns []string `json:"columns"`
	Total   int      `json:"total"`
}

type DataResponseObjects struct {
	DataResponseBase
	Rows []map[string]any `json:"rows"`
}

type DataResponseArray struct {
	DataResponseBase
	Rows []any `json:"rows"`
}

type CreateSessionRequest struct {
	Table string   `json:"table,omitempty"`
	Diff  string   `json:"diff,omitempty"`
	Key   []string `json:"key,omitempty"`
}

type LoadTableRequest struct {
	Table string `json:"table"`
}

type InsertRowRequest struct {
	Values map[string]any `json:"values"`
}

type SetCellRequest struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// ReplaceRowsRequest carries the whole grid as the editor submits it.
type ReplaceRowsRequest struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type SessionResponse struct {
	ID       string   `json:"id"`
	Table    string   `json:"table"`
	Writable bool     `json:"writable"`
	Message  string   `json:"message,omitempty"`
	Diff     string   `json:"diff"`
	Key      []string `json:"key,omitempty"`
	Changes  int      `json:"changes"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
}

type RowChange struct {
	Old []any `json:"old"`
	New []any `json:"new"`
}

type DiffResponse struct {
	Strategy string      `json:"strategy"`
	Columns  []string    `json:"columns"`
	Key      []string    `json:"key,omitempty"`
	Empty    bool        `json:"empty"`
	Inserted [][]any     `json:"inserted"`
	Deleted  [][]any     `json:"deleted"`
	Updated  []RowChange `json:"updated,omitempty"`
}

type SaveResponse struct {
	OK           bool    `json:"ok"`
	Strategy     string  `json:"strategy"`
	Message      string  `json:"message"`
	NoChanges    bool    `json:"no_changes"`
	Statements   int     `json:"statements"`
	RowsAffected int64   `json:"rows_affected"`
	DurationMS   float64 `json:"duration_ms"`
}

type SavesResponse struct {
	OK    bool         `json:"ok"`
	Saves []SaveRecord `json:"saves"`
}

type File struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type FilesResponse struct {
	OK     bool   `json:"ok"`
	Volume string `json:"volume"`
	Files  []File `json:"files"`
}

type ExportResponse struct {
	OK   bool   `json:"ok"`
	Path string `json:"path"`
	Rows int    `json:"rows"`
}
