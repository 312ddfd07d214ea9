package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mlopez/fundscout/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ListParams struct {
	Query        string // substring match on title and description
	Source       string
	Category     string
	Type         string
	MinRelevance float64
	Processed    *bool
	Limit        int
	Offset       int
}

type ListResult struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	Offset        int                  `json:"offset"`
}

const selectCols = `id, title, description, organization, source_name, source_url,
	external_url, deadline, category, categories, keywords, estimated_funding,
	opportunity_type, relevance_score, processed, created_at, updated_at`

func scanOpportunity(scan func(dest ...interface{}) error) (models.Opportunity, error) {
	var o models.Opportunity
	err := scan(
		&o.ID, &o.Title, &o.Description, &o.Organization, &o.SourceName, &o.SourceURL,
		&o.ExternalURL, &o.Deadline, &o.Category, &o.Categories, &o.Keywords, &o.EstimatedFunding,
		&o.OpportunityType, &o.RelevanceScore, &o.Processed, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// Upsert inserts an opportunity or, when a row with the same title and
// source URL exists, refreshes its derived fields. The row's id, created_at
// and processed flag survive updates.
func (s *Store) Upsert(ctx context.Context, opp models.Opportunity) (uuid.UUID, error) {
	if opp.Categories == nil {
		opp.Categories = []string{}
	}
	if opp.Keywords == nil {
		opp.Keywords = []string{}
	}

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO opportunities (
			title, description, organization, source_name, source_url,
			external_url, deadline, category, categories, keywords,
			estimated_funding, opportunity_type, relevance_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (title, source_url) DO UPDATE SET
			updated_at = NOW(),
			description = COALESCE(NULLIF(EXCLUDED.description, ''), opportunities.description),
			organization = COALESCE(NULLIF(EXCLUDED.organization, ''), opportunities.organization),
			source_name = COALESCE(NULLIF(EXCLUDED.source_name, ''), opportunities.source_name),
			external_url = COALESCE(NULLIF(EXCLUDED.external_url, ''), opportunities.external_url),
			deadline = COALESCE(NULLIF(EXCLUDED.deadline, ''), opportunities.deadline),
			category = EXCLUDED.category,
			categories = EXCLUDED.categories,
			keywords = EXCLUDED.keywords,
			estimated_funding = COALESCE(NULLIF(EXCLUDED.estimated_funding, ''), opportunities.estimated_funding),
			opportunity_type = EXCLUDED.opportunity_type,
			relevance_score = EXCLUDED.relevance_score
		RETURNING id
	`,
		opp.Title, opp.Description, opp.Organization, opp.SourceName, opp.SourceURL,
		opp.ExternalURL, opp.Deadline, opp.Category, opp.Categories, opp.Keywords,
		opp.EstimatedFunding, opp.OpportunityType, opp.RelevanceScore,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert opportunity %q: %w", opp.Title, err)
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (models.Opportunity, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectCols+" FROM opportunities WHERE id = $1", id)
	o, err := scanOpportunity(row.Scan)
	if err != nil {
		return o, fmt.Errorf("failed to get opportunity %s: %w", id, err)
	}
	return o, nil
}

func (s *Store) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.Source != "" {
		where += fmt.Sprintf(" AND source_name = $%d", argIdx)
		args = append(args, params.Source)
		argIdx++
	}
	if params.Category != "" {
		where += fmt.Sprintf(" AND (category = $%d OR $%d = ANY(categories))", argIdx, argIdx)
		args = append(args, params.Category)
		argIdx++
	}
	if params.Type != "" {
		where += fmt.Sprintf(" AND opportunity_type = $%d", argIdx)
		args = append(args, params.Type)
		argIdx++
	}
	if params.MinRelevance > 0 {
		where += fmt.Sprintf(" AND relevance_score >= $%d", argIdx)
		args = append(args, params.MinRelevance)
		argIdx++
	}
	if params.Processed != nil {
		where += fmt.Sprintf(" AND processed = $%d", argIdx)
		args = append(args, *params.Processed)
		argIdx++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT %s FROM opportunities %s ORDER BY relevance_score DESC, created_at DESC LIMIT $%d OFFSET $%d",
		selectCols, where, argIdx, argIdx+1,
	)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	opportunities := make([]models.Opportunity, 0, limit)
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		opportunities = append(opportunities, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ListResult{
		Opportunities: opportunities,
		Total:         total,
		Limit:         limit,
		Offset:        params.Offset,
	}, nil
}

// All returns every stored opportunity, newest first. The matchers operate
// on this snapshot.
func (s *Store) All(ctx context.Context) ([]models.Opportunity, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+selectCols+" FROM opportunities ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to load opportunities: %w", err)
	}
	defer rows.Close()
	return collectOpportunities(rows)
}

// Unprocessed returns opportunities not yet consumed by downstream
// processing, oldest first so nothing starves.
func (s *Store) Unprocessed(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+selectCols+" FROM opportunities WHERE NOT processed ORDER BY created_at ASC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load unprocessed opportunities: %w", err)
	}
	defer rows.Close()
	return collectOpportunities(rows)
}

func (s *Store) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, "UPDATE opportunities SET processed = TRUE, updated_at = NOW() WHERE id = ANY($1)", ids)
	if err != nil {
		return fmt.Errorf("failed to mark opportunities processed: %w", err)
	}
	return nil
}

func collectOpportunities(rows pgx.Rows) ([]models.Opportunity, error) {
	var out []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type SourceCount struct {
	SourceName string `json:"source_name"`
	Count      int    `json:"count"`
}

func (s *Store) Sources(ctx context.Context) ([]SourceCount, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT source_name, COUNT(*) FROM opportunities GROUP BY source_name ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.SourceName, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

type Stats struct {
	Total       int            `json:"total"`
	Unprocessed int            `json:"unprocessed"`
	ByType      map[string]int `json:"by_type"`
	ByCategory  map[string]int `json:"by_category"`
	Donors      int            `json:"donors"`
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
	}

	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities").Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM opportunities WHERE NOT processed").Scan(&stats.Unprocessed); err != nil {
		return nil, fmt.Errorf("failed to count unprocessed: %w", err)
	}
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM donors").Scan(&stats.Donors); err != nil {
		return nil, fmt.Errorf("failed to count donors: %w", err)
	}

	rows, err := s.pool.Query(ctx, "SELECT opportunity_type, COUNT(*) FROM opportunities GROUP BY opportunity_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		stats.ByType[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.pool.Query(ctx, "SELECT category, COUNT(*) FROM opportunities GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var c string
		var n int
		if err := catRows.Scan(&c, &n); err != nil {
			return nil, err
		}
		stats.ByCategory[c] = n
	}
	return stats, catRows.Err()
}
