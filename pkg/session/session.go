package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JayJamieson/table-editor/pkg/models"
	"github.com/JayJamieson/table-editor/pkg/table"
	"github.com/JayJamieson/table-editor/pkg/warehouse"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SaveOverwrite = "overwrite"
	SaveUpsert    = "upsert"
)

var (
	ErrNotWritable     = errors.New("saving is disabled for this session")
	ErrUnknownStrategy = errors.New("unknown save strategy")
)

// Warehouse is the part of warehouse.Warehouse a session needs.
type Warehouse interface {
	Fetch(ctx context.Context, id table.Identifier) (*table.Snapshot, error)
	Overwrite(ctx context.Context, id table.Identifier, s *table.Snapshot) (*warehouse.Result, error)
	Upsert(ctx context.Context, id table.Identifier, diff *table.Diff) (*warehouse.Result, error)
}

// SaveLog receives one record per save attempt.
type SaveLog interface {
	RecordSave(ctx context.Context, rec *models.SaveRecord) error
}

// Session is the state of one editing user: the table being edited, the
// snapshot as fetched, the edited grid and the last message shown.
// Operations on a session are serialised.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	table    table.Identifier
	original *table.Snapshot
	edited   *table.Snapshot
	message  string
	writable bool
	differ   table.Differ

	wh       Warehouse
	saves    SaveLog
	lastSeen atomic.Int64
}

// State is a copy of the session state, safe to read without locking.
type State struct {
	ID       uuid.UUID
	Table    string
	Writable bool
	Message  string
	Diff     string
	Key      []string
	Changes  int
	Edited   *table.Snapshot
}

// SaveResult describes a finished save.
type SaveResult struct {
	Strategy  string
	NoChanges bool
	Diff      *table.Diff
	Result    *warehouse.Result
	Message   string
}

func newSession(wh Warehouse, saves SaveLog, differ table.Differ) *Session {
	s := &Session{
		ID:     uuid.New(),
		wh:     wh,
		saves:  saves,
		differ: differ,
	}
	s.showSample("No table selected. Showing sample data.")
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) showSample(message string) {
	s.original = table.SampleSnapshot()
	s.edited = s.original.Clone()
	s.writable = false
	s.message = message
}

// Load fetches a table and makes it the session's original and edited
// snapshot. A blank name shows the sample without fetching. A failed fetch
// also shows the sample and keeps the error as the session message; both
// cases disable saving.
func (s *Session) Load(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := table.ParseIdentifier(name)
	s.table = id
	if id.IsZero() {
		s.showSample("No table selected. Showing sample data.")
		return nil
	}

	snapshot, err := s.wh.Fetch(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID.String()).Str("table", id.String()).Msg("fetch failed, showing sample")
		s.showSample(fmt.Sprintf("Could not load %s: %v. Showing sample data.", id, err))
		return err
	}

	s.original = snapshot
	s.edited = snapshot.Clone()
	s.writable = true
	s.message = fmt.Sprintf("Loaded %d rows from %s.", snapshot.Len(), id)
	return nil
}

// SetDiffer changes the diff strategy used by Diff and Save.
func (s *Session) SetDiffer(strategy string, key []string) error {
	differ, err := table.NewDiffer(strategy, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.differ = differ
	s.mu.Unlock()
	return nil
}

// InsertRow appends a row; columns missing from values are null.
func (s *Session) InsertRow(values map[string]any) (*table.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.edited.AppendRow(values); err != nil {
		return nil, err
	}
	return s.edited.Clone(), nil
}

func (s *Session) DeleteRow(index int) (*table.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.edited.DeleteRow(index); err != nil {
		return nil, err
	}
	return s.edited.Clone(), nil
}

func (s *Session) SetCell(index int, column string, value any) (*table.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.edited.SetCell(index, column, value); err != nil {
		return nil, err
	}
	return s.edited.Clone(), nil
}

// ReplaceEdited swaps in a whole grid. Its columns must match the
// original's.
func (s *Session) ReplaceEdited(edited *table.Snapshot) (*table.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.original.SameColumns(edited) {
		return nil, table.ErrColumnMismatch
	}
	s.edited = edited.Clone()
	return s.edited.Clone(), nil
}

// Reset discards all edits.
func (s *Session) Reset() *table.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edited = s.original.Clone()
	return s.edited.Clone()
}

// Diff compares the edited grid against the original.
func (s *Session) Diff() (*table.Diff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.differ.Diff(s.original, s.edited)
}

// Original returns a copy of the snapshot as fetched.
func (s *Session) Original() *table.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original.Clone()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:       s.ID,
		Table:    s.table.String(),
		Writable: s.writable,
		Message:  s.message,
		Diff:     s.differ.Name(),
		Edited:   s.edited.Clone(),
	}
	if k, ok := s.differ.(table.KeyedDiffer); ok {
		st.Key = append([]string(nil), k.Key...)
	}
	if d, err := s.differ.Diff(s.original, s.edited); err == nil {
		st.Changes = len(d.Inserted) + len(d.Deleted) + len(d.Updated)
	}
	return st
}

// Save writes the edited grid back. Overwrite replaces the whole table;
// upsert writes only the diff and is a no-op when nothing changed. After a
// successful save the edited grid becomes the new original.
func (s *Session) Save(ctx context.Context, strategy string) (*SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	strategy = strings.ToLower(strategy)
	if strategy == "" {
		strategy = SaveUpsert
	}
	if strategy != SaveOverwrite && strategy != SaveUpsert {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
	if !s.writable {
		return nil, ErrNotWritable
	}

	// overwrite does not need the diff; it is only kept for the counts
	diff, err := s.differ.Diff(s.original, s.edited)
	if err != nil {
		if strategy == SaveUpsert {
			return nil, err
		}
		diff = &table.Diff{Strategy: s.differ.Name()}
	}

	out := &SaveResult{Strategy: strategy, Diff: diff}
	if strategy == SaveUpsert && diff.Empty() {
		out.NoChanges = true
		out.Message = "No changes to save."
		s.message = out.Message
		return out, nil
	}

	var res *warehouse.Result
	if strategy == SaveOverwrite {
		res, err = s.wh.Overwrite(ctx, s.table, s.edited)
	} else {
		res, err = s.wh.Upsert(ctx, s.table, diff)
	}
	s.record(ctx, strategy, diff, res, err)

	if err != nil {
		s.message = fmt.Sprintf("Save failed: %v", err)
		return nil, err
	}

	s.original = s.edited.Clone()
	out.Result = res
	if strategy == SaveOverwrite {
		out.Message = fmt.Sprintf("Replaced %s with %d rows.", s.table, s.edited.Len())
	} else {
		out.Message = fmt.Sprintf("Saved %d inserted, %d deleted, %d updated rows to %s.",
			len(diff.Inserted), len(diff.Deleted), len(diff.Updated), s.table)
	}
	s.message = out.Message
	return out, nil
}

func (s *Session) record(ctx context.Context, strategy string, diff *table.Diff, res *warehouse.Result, saveErr error) {
	if s.saves == nil {
		return
	}

	rec := &models.SaveRecord{
		SessionID:    s.ID.String(),
		TableName:    s.table.String(),
		Strategy:     strategy,
		DiffStrategy: diff.Strategy,
		Inserted:     len(diff.Inserted),
		Deleted:      len(diff.Deleted),
		Updated:      len(diff.Updated),
		Status:       models.SaveStatusOK,
	}
	if res != nil {
		rec.Statements = res.Statements
		rec.RowsAffected = res.RowsAffected
		rec.DurationMS = res.Duration.Milliseconds()
	}
	if saveErr != nil {
		rec.Status = models.SaveStatusFailed
		rec.Error = saveErr.Error()
		var whErr *warehouse.Error
		if errors.As(saveErr, &whErr) {
			rec.Statements = whErr.Applied
		}
	}

	// a log failure does not fail the save
	if err := s.saves.RecordSave(context.WithoutCancel(ctx), rec); err != nil {
		log.Error().Err(err).Str("session", s.ID.String()).Msg("failed to record save")
	}
}
