package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

// Keys of the kv table. Each holds one part of the snapshot document.
const (
	keyMeta     = "meta"
	keyProjects = "projects"
	keyRoster   = "pics"
	keyUndo     = "undo"
)

// SQLiteSnapshotRepo stores the snapshot in the kv table, one row per part,
// and appends a row to snapshot_revisions on every save.
type SQLiteSnapshotRepo struct {
	db  *sql.DB
	uow db.UnitOfWork
}

func NewSQLiteSnapshotRepo(database *sql.DB, uow db.UnitOfWork) *SQLiteSnapshotRepo {
	if uow == nil {
		uow = db.NewSQLiteUnitOfWork(database)
	}
	return &SQLiteSnapshotRepo{db: database, uow: uow}
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer rows.Close()

	parts := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning snapshot part: %w", err)
		}
		parts[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(parts) == 0 {
		return domain.NewSnapshot(), nil
	}

	// Reassemble the parts into one document so the file and SQLite stores
	// share a single validation path.
	var meta metaDoc
	if raw, ok := parts[keyMeta]; ok {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("%w: meta: %v", ErrInvalidSnapshot, err)
		}
	}
	if meta.Version == 0 {
		meta.Version = snapshotVersion
	}
	doc := map[string]any{
		"version":          meta.Version,
		"next_project_seq": max(meta.NextProjectSeq, 1),
		"projects":         rawOr(parts[keyProjects]),
		"pics":             rawOr(parts[keyRoster]),
		"undo":             rawOr(parts[keyUndo]),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("assembling snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

func rawOr(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, s *domain.Snapshot) error {
	doc := toDoc(s)
	parts := []struct {
		key   string
		value any
	}{
		{keyMeta, metaDoc{Version: doc.Version, NextProjectSeq: doc.NextProjectSeq}},
		{keyProjects, doc.Projects},
		{keyRoster, doc.Roster},
		{keyUndo, doc.Undo},
	}

	revision := uuid.New().String()
	now := nowUTC()
	total := 0
	encoded := make([][]byte, len(parts))
	for i, part := range parts {
		data, err := json.Marshal(part.value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", part.key, err)
		}
		encoded[i] = data
		total += len(data)
	}

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		for i, part := range parts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kv (key, value, updated_at, revision) VALUES (?, ?, ?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
				   updated_at = excluded.updated_at, revision = excluded.revision`,
				part.key, encoded[i], now, revision)
			if err != nil {
				return fmt.Errorf("writing %s: %w", part.key, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_revisions (id, saved_at, projects, tasks, bytes) VALUES (?, ?, ?, ?, ?)`,
			revision, now, len(s.Projects), countTasks(s), total)
		if err != nil {
			return fmt.Errorf("recording revision: %w", err)
		}
		return nil
	})
}

// Revisions lists the most recent saves, newest first.
func (r *SQLiteSnapshotRepo) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, saved_at, projects, tasks, bytes FROM snapshot_revisions
		 ORDER BY saved_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var rev Revision
		var savedAt string
		if err := rows.Scan(&rev.ID, &savedAt, &rev.Projects, &rev.Tasks, &rev.Bytes); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		if rev.SavedAt, err = time.Parse(time.RFC3339, savedAt); err != nil {
			return nil, fmt.Errorf("parsing saved_at of revision %s: %w", rev.ID, err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
