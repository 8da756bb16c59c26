package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/quantumlife/cogmind/internal/affect"
)

// ErrNoSnapshots is returned when no affect snapshot has been saved yet.
var ErrNoSnapshots = errors.New("no affect snapshots")

// AffectStore records periodic snapshots of the affective state so the
// mood trajectory survives restarts.
type AffectStore struct {
	db *DB
}

// NewAffectStore creates a new affect store
func NewAffectStore(db *DB) *AffectStore {
	return &AffectStore{db: db}
}

// Snapshot persists the state at the given instant
func (s *AffectStore) Snapshot(state affect.State, takenAt time.Time) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO affect_snapshots (valence, arousal, dominance, novelty, taken_at)
		VALUES (?, ?, ?, ?, ?)
	`, state.Valence, state.Arousal, state.Dominance, state.Novelty, takenAt.UTC())

	return err
}

// Latest returns the most recent snapshot
func (s *AffectStore) Latest() (affect.State, time.Time, error) {
	var state affect.State
	var takenAt time.Time

	err := s.db.conn.QueryRow(`
		SELECT valence, arousal, dominance, novelty, taken_at
		FROM affect_snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`).Scan(&state.Valence, &state.Arousal, &state.Dominance, &state.Novelty, &takenAt)

	if err == sql.ErrNoRows {
		return affect.State{}, time.Time{}, ErrNoSnapshots
	}
	if err != nil {
		return affect.State{}, time.Time{}, err
	}

	return state, takenAt, nil
}

// History returns snapshots taken after the cutoff, oldest first
func (s *AffectStore) History(since time.Time) ([]affect.State, error) {
	rows, err := s.db.conn.Query(`
		SELECT valence, arousal, dominance, novelty
		FROM affect_snapshots
		WHERE taken_at >= ?
		ORDER BY taken_at ASC, id ASC
	`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []affect.State
	for rows.Next() {
		var st affect.State
		if err := rows.Scan(&st.Valence, &st.Arousal, &st.Dominance, &st.Novelty); err != nil {
			return nil, err
		}
		out = append(out, st)
	}

	return out, rows.Err()
}
