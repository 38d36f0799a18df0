package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/owltechengineer/ecoceo-sub006/internal/crm/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

const uniqueViolation = "23505"

// Repository persists campaigns and leads.
type Repository struct {
	db database.DB
}

func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

const campaignColumns = `id, name, channel, status, budget_amount, start_date, end_date, created_at, updated_at`

func (r *Repository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Channel, c.Status, c.BudgetAmount, c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.Channel, &c.Status, &c.BudgetAmount, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("campaign", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign %s: %w", id, err)
	}
	return &c, nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE campaigns
		SET name = $2, channel = $3, status = $4, budget_amount = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Channel, c.Status, c.BudgetAmount, c.StartDate, c.EndDate,
	)
	if err != nil {
		return fmt.Errorf("update campaign %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("campaign", c.ID.String())
	}
	return nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("campaign", id.String())
	}
	return nil
}

func (r *Repository) ListCampaigns(ctx context.Context, status string, params pagination.Params) ([]*domain.Campaign, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+campaignColumns+`, COUNT(*) OVER() AS total
		FROM campaigns
		WHERE ($1 = '' OR status = $1)
		ORDER BY start_date DESC
		LIMIT $2 OFFSET $3`,
		status, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	var total int64
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Channel, &c.Status, &c.BudgetAmount,
			&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan campaign row: %w", err)
		}
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate campaign rows: %w", err)
	}
	return campaigns, total, nil
}

const leadColumns = `id, campaign_id, name, email, source, status, note, created_at, updated_at`

func (r *Repository) CreateLead(ctx context.Context, l *domain.Lead) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leads (`+leadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.CampaignID, l.Name, l.Email, l.Source, l.Status, l.Note, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.AlreadyExists("lead", "email", l.Email)
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var l domain.Lead
	err := r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id).Scan(
		&l.ID, &l.CampaignID, &l.Name, &l.Email, &l.Source, &l.Status, &l.Note, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("lead", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return &l, nil
}

func (r *Repository) UpdateLead(ctx context.Context, l *domain.Lead) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE leads
		SET campaign_id = $2, name = $3, email = $4, source = $5, status = $6, note = $7, updated_at = NOW()
		WHERE id = $1`,
		l.ID, l.CampaignID, l.Name, l.Email, l.Source, l.Status, l.Note,
	)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("lead", l.ID.String())
	}
	return nil
}

func (r *Repository) DeleteLead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("lead", id.String())
	}
	return nil
}

func (r *Repository) ListLeads(ctx context.Context, status string, campaignID *uuid.UUID, params pagination.Params) ([]*domain.Lead, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+leadColumns+`, COUNT(*) OVER() AS total
		FROM leads
		WHERE ($1 = '' OR status = $1)
		  AND ($2::uuid IS NULL OR campaign_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		status, campaignID, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*domain.Lead
	var total int64
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(
			&l.ID, &l.CampaignID, &l.Name, &l.Email, &l.Source, &l.Status, &l.Note,
			&l.CreatedAt, &l.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate lead rows: %w", err)
	}
	return leads, total, nil
}
