package storage

import (
	"database/sql"
	"time"

	"github.com/quantumlife/cogmind/internal/journal"
)

// ThoughtStore archives journal activity that survived relevance
// truncation. The journal stays bounded in memory; this is the durable
// record.
type ThoughtStore struct {
	db *DB
}

// NewThoughtStore creates a new thought store
func NewThoughtStore(db *DB) *ThoughtStore {
	return &ThoughtStore{db: db}
}

// Archive persists one journal activity
func (s *ThoughtStore) Archive(a journal.Activity) error {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO thoughts (kind, text, intensity, triggered_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(a.Kind), a.Text, a.Intensity, a.Trigger, ts.UTC())

	return err
}

// ArchiveAll persists a batch of activities in one transaction
func (s *ThoughtStore) ArchiveAll(activities []journal.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *sql.Tx) error {
		for _, a := range activities {
			ts := a.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			if _, err := tx.Exec(`
				INSERT INTO thoughts (kind, text, intensity, triggered_by, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, string(a.Kind), a.Text, a.Intensity, a.Trigger, ts.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent returns the most recently archived thoughts, newest first
func (s *ThoughtStore) Recent(limit int) ([]journal.Activity, error) {
	rows, err := s.db.conn.Query(`
		SELECT kind, text, intensity, triggered_by, created_at
		FROM thoughts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Activity
	for rows.Next() {
		var a journal.Activity
		var kind string
		if err := rows.Scan(&kind, &a.Text, &a.Intensity, &a.Trigger, &a.Timestamp); err != nil {
			return nil, err
		}
		a.Kind = journal.ThoughtKind(kind)
		out = append(out, a)
	}

	return out, rows.Err()
}

// ByKind returns archived thoughts of one kind, newest first
func (s *ThoughtStore) ByKind(kind journal.ThoughtKind, limit int) ([]journal.Activity, error) {
	rows, err := s.db.conn.Query(`
		SELECT kind, text, intensity, triggered_by, created_at
		FROM thoughts
		WHERE kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Activity
	for rows.Next() {
		var a journal.Activity
		var k string
		if err := rows.Scan(&k, &a.Text, &a.Intensity, &a.Trigger, &a.Timestamp); err != nil {
			return nil, err
		}
		a.Kind = journal.ThoughtKind(k)
		out = append(out, a)
	}

	return out, rows.Err()
}

// Count returns the total number of archived thoughts
func (s *ThoughtStore) Count() (int, error) {
	var n int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM thoughts").Scan(&n)
	return n, err
}
