package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/ledger/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// EntryRepository persists ledger entries.
type EntryRepository struct {
	db database.DB
}

func NewEntryRepository(db database.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, direction, amount, category, note, occurred_at, created_at`

func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Direction, e.Amount, e.Category, e.Note, e.OccurredAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	var e domain.Entry
	err := r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id).Scan(
		&e.ID, &e.Direction, &e.Amount, &e.Category, &e.Note, &e.OccurredAt, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("ledger entry", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger entry %s: %w", id, err)
	}
	return &e, nil
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ledger entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("ledger entry", id.String())
	}
	return nil
}

// List returns entries in the period, newest first. Empty direction or
// category means no filter.
func (r *EntryRepository) List(ctx context.Context, direction, category string, from, to time.Time, params pagination.Params) ([]*domain.Entry, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`, COUNT(*) OVER() AS total
		FROM ledger_entries
		WHERE occurred_at >= $1 AND occurred_at < $2
		  AND ($3 = '' OR direction = $3)
		  AND ($4 = '' OR category = $4)
		ORDER BY occurred_at DESC
		LIMIT $5 OFFSET $6`,
		from, to, direction, category, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	var total int64
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(
			&e.ID, &e.Direction, &e.Amount, &e.Category, &e.Note, &e.OccurredAt, &e.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger entry rows: %w", err)
	}
	return entries, total, nil
}

// Summarize aggregates the period in one query.
func (r *EntryRepository) Summarize(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	var s domain.Summary
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'income'), 0)  AS income_total,
			COALESCE(SUM(amount) FILTER (WHERE direction = 'expense'), 0) AS expense_total,
			COUNT(*) AS entry_count
		FROM ledger_entries
		WHERE occurred_at >= $1 AND occurred_at < $2`,
		from, to,
	).Scan(&s.IncomeTotal, &s.ExpenseTotal, &s.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("summarize ledger: %w", err)
	}

	s.Net = s.IncomeTotal - s.ExpenseTotal
	return &s, nil
}
