package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

// SaveMatches replaces the stored matches for one subject with a fresh
// ranking. Matches are derived data, regenerating them is always safe.
func (s *Store) SaveMatches(ctx context.Context, subjectKind, subjectID string, matches []models.Match) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM matches WHERE subject_kind = $1 AND subject_id = $2",
		subjectKind, subjectID); err != nil {
		return fmt.Errorf("failed to clear old matches: %w", err)
	}

	for _, m := range matches {
		if m.Signals == nil {
			m.Signals = map[string]string{}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO matches (subject_kind, subject_id, opportunity_id, score, signals)
			VALUES ($1, $2, $3, $4, $5)
		`, subjectKind, subjectID, m.OpportunityID, m.Score, m.Signals); err != nil {
			return fmt.Errorf("failed to save match for opportunity %s: %w", m.OpportunityID, err)
		}
	}

	return tx.Commit(ctx)
}

// SaveOpportunityMatches replaces the stored matches for one opportunity,
// keeping each record's own subject id. Used for donor rankings, where every
// row names a different donor against the same opportunity.
func (s *Store) SaveOpportunityMatches(ctx context.Context, subjectKind string, oppID uuid.UUID, matches []models.Match) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM matches WHERE subject_kind = $1 AND opportunity_id = $2",
		subjectKind, oppID); err != nil {
		return fmt.Errorf("failed to clear old matches: %w", err)
	}

	for _, m := range matches {
		if m.Signals == nil {
			m.Signals = map[string]string{}
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO matches (subject_kind, subject_id, opportunity_id, score, signals)
			VALUES ($1, $2, $3, $4, $5)
		`, subjectKind, m.SubjectID, oppID, m.Score, m.Signals); err != nil {
			return fmt.Errorf("failed to save match for subject %s: %w", m.SubjectID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListMatches(ctx context.Context, subjectKind, subjectID string, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, subject_kind, subject_id, opportunity_id, score, signals, created_at
		FROM matches
		WHERE subject_kind = $1 AND subject_id = $2
		ORDER BY score DESC
		LIMIT $3
	`, subjectKind, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.SubjectKind, &m.SubjectID, &m.OpportunityID, &m.Score, &m.Signals, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMatches(ctx context.Context, subjectKind, subjectID string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM matches WHERE subject_kind = $1 AND subject_id = $2",
		subjectKind, subjectID)
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}

// DeleteMatchesForOpportunity is used when an opportunity is pruned.
func (s *Store) DeleteMatchesForOpportunity(ctx context.Context, oppID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM matches WHERE opportunity_id = $1", oppID)
	if err != nil {
		return fmt.Errorf("failed to delete matches for opportunity %s: %w", oppID, err)
	}
	return nil
}
