package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/quantumlife/cogmind/internal/goals"
)

// ErrGoalNotFound is returned when a goal id has no row.
var ErrGoalNotFound = errors.New("goal not found")

// GoalStore handles goal persistence
type GoalStore struct {
	db *DB
}

// NewGoalStore creates a new goal store
func NewGoalStore(db *DB) *GoalStore {
	return &GoalStore{db: db}
}

// Save inserts or updates a goal by id
func (s *GoalStore) Save(g goals.Goal) error {
	strategies, _ := json.Marshal(g.Strategies)

	var deadline interface{}
	if g.Deadline != nil {
		deadline = g.Deadline.UTC()
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO goals (
		    id, description, category, priority, urgency, progress,
		    status, emotional_investment, strategies, deadline,
		    created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    priority = excluded.priority,
		    urgency = excluded.urgency,
		    progress = excluded.progress,
		    status = excluded.status,
		    emotional_investment = excluded.emotional_investment,
		    strategies = excluded.strategies,
		    deadline = excluded.deadline,
		    updated_at = excluded.updated_at
	`,
		g.ID, g.Description, string(g.Category), g.Priority, g.Urgency,
		g.Progress, string(g.Status), g.EmotionalInvestment,
		string(strategies), deadline, g.CreatedAt.UTC(), time.Now().UTC(),
	)

	return err
}

// GetByID returns a goal by id
func (s *GoalStore) GetByID(id string) (*goals.Goal, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, description, category, priority, urgency, progress,
		       status, emotional_investment, strategies, deadline, created_at
		FROM goals WHERE id = ?
	`, id)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ByStatus returns goals in the given status, newest first
func (s *GoalStore) ByStatus(status goals.Status, limit int) ([]*goals.Goal, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, description, category, priority, urgency, progress,
		       status, emotional_investment, strategies, deadline, created_at
		FROM goals
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*goals.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (*goals.Goal, error) {
	g := &goals.Goal{}
	var category, status, strategies string
	var deadline sql.NullTime

	err := row.Scan(
		&g.ID, &g.Description, &category, &g.Priority, &g.Urgency,
		&g.Progress, &status, &g.EmotionalInvestment, &strategies,
		&deadline, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Category = goals.Category(category)
	g.Status = goals.Status(status)
	if deadline.Valid {
		t := deadline.Time
		g.Deadline = &t
	}
	json.Unmarshal([]byte(strategies), &g.Strategies)

	return g, nil
}
