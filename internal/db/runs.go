package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DiscoveryRun is the persisted record of one discovery pass.
type DiscoveryRun struct {
	ID         uuid.UUID       `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Found      int             `json:"found"`
	Saved      int             `json:"saved"`
	Rejected   int             `json:"rejected"`
	Errors     int             `json:"errors"`
	Sources    json.RawMessage `json:"sources"` // per-source counters
}

func (s *Store) RecordRun(ctx context.Context, run DiscoveryRun) (uuid.UUID, error) {
	sources := run.Sources
	if len(sources) == 0 {
		sources = json.RawMessage("{}")
	}

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO discovery_runs (started_at, finished_at, found, saved, rejected, errors, sources)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, run.StartedAt, run.FinishedAt, run.Found, run.Saved, run.Rejected, run.Errors, sources).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record discovery run: %w", err)
	}
	return id, nil
}

func (s *Store) RecentRuns(ctx context.Context, limit int) ([]DiscoveryRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, finished_at, found, saved, rejected, errors, sources
		FROM discovery_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list discovery runs: %w", err)
	}
	defer rows.Close()

	var out []DiscoveryRun
	for rows.Next() {
		var r DiscoveryRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Found, &r.Saved, &r.Rejected, &r.Errors, &r.Sources); err != nil {
			return nil, fmt.Errorf("failed to scan discovery run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
