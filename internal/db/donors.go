package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlopez/fundscout/internal/models"
)

const donorCols = `id, name, type, region, country, focus_areas, website,
	contact_email, contact_phone, description, giving_amount,
	application_process, deadlines, requirements, created_at, updated_at`

func scanDonor(scan func(dest ...interface{}) error) (models.Donor, error) {
	var d models.Donor
	err := scan(
		&d.ID, &d.Name, &d.Type, &d.Region, &d.Country, &d.FocusAreas, &d.Website,
		&d.ContactEmail, &d.ContactPhone, &d.Description, &d.GivingAmount,
		&d.ApplicationProcess, &d.Deadlines, &d.Requirements, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// UpsertDonor inserts a donor or refreshes the existing row with the same
// name. Names are the natural key of the registry.
func (s *Store) UpsertDonor(ctx context.Context, d models.Donor) (uuid.UUID, error) {
	if d.FocusAreas == nil {
		d.FocusAreas = []string{}
	}

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO donors (
			name, type, region, country, focus_areas, website,
			contact_email, contact_phone, description, giving_amount,
			application_process, deadlines, requirements
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (name) DO UPDATE SET
			updated_at = NOW(),
			type = COALESCE(NULLIF(EXCLUDED.type, ''), donors.type),
			region = COALESCE(NULLIF(EXCLUDED.region, ''), donors.region),
			country = COALESCE(NULLIF(EXCLUDED.country, ''), donors.country),
			focus_areas = EXCLUDED.focus_areas,
			website = COALESCE(NULLIF(EXCLUDED.website, ''), donors.website),
			contact_email = COALESCE(NULLIF(EXCLUDED.contact_email, ''), donors.contact_email),
			contact_phone = COALESCE(NULLIF(EXCLUDED.contact_phone, ''), donors.contact_phone),
			description = COALESCE(NULLIF(EXCLUDED.description, ''), donors.description),
			giving_amount = COALESCE(NULLIF(EXCLUDED.giving_amount, ''), donors.giving_amount),
			application_process = COALESCE(NULLIF(EXCLUDED.application_process, ''), donors.application_process),
			deadlines = COALESCE(NULLIF(EXCLUDED.deadlines, ''), donors.deadlines),
			requirements = COALESCE(NULLIF(EXCLUDED.requirements, ''), donors.requirements)
		RETURNING id
	`,
		d.Name, d.Type, d.Region, d.Country, d.FocusAreas, d.Website,
		d.ContactEmail, d.ContactPhone, d.Description, d.GivingAmount,
		d.ApplicationProcess, d.Deadlines, d.Requirements,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert donor %q: %w", d.Name, err)
	}
	return id, nil
}

func (s *Store) GetDonor(ctx context.Context, id uuid.UUID) (models.Donor, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+donorCols+" FROM donors WHERE id = $1", id)
	d, err := scanDonor(row.Scan)
	if err != nil {
		return d, fmt.Errorf("failed to get donor %s: %w", id, err)
	}
	return d, nil
}

type DonorListParams struct {
	Query   string // substring match on name, description and focus areas
	Type    string
	Region  string
	Country string
	Limit   int
	Offset  int
}

func (s *Store) ListDonors(ctx context.Context, params DonorListParams) ([]models.Donor, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Query != "" {
		where += fmt.Sprintf(
			" AND (name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%'"+
				" OR EXISTS (SELECT 1 FROM unnest(focus_areas) fa WHERE fa ILIKE '%%' || $%d || '%%'))",
			argIdx, argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, params.Type)
		argIdx++
	}
	if params.Region != "" {
		where += fmt.Sprintf(" AND region = $%d", argIdx)
		args = append(args, params.Region)
		argIdx++
	}
	if params.Country != "" {
		where += fmt.Sprintf(" AND country = $%d", argIdx)
		args = append(args, params.Country)
		argIdx++
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM donors %s ORDER BY name LIMIT $%d OFFSET $%d",
		donorCols, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	defer rows.Close()

	var out []models.Donor
	for rows.Next() {
		d, err := scanDonor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donor: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AllDonors returns the full donor registry, for matching.
func (s *Store) AllDonors(ctx context.Context) ([]models.Donor, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+donorCols+" FROM donors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to load donors: %w", err)
	}
	defer rows.Close()

	var out []models.Donor
	for rows.Next() {
		d, err := scanDonor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donor: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
