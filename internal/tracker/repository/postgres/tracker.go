package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/tracker/domain"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// Repository persists projects and tasks.
type Repository struct {
	db database.DB
}

func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

const projectColumns = `id, name, client, status, budget_amount, created_at, updated_at`

func (r *Repository) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Client, p.Status, p.BudgetAmount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Client, &p.Status, &p.BudgetAmount, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("project", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &p, nil
}

func (r *Repository) UpdateProject(ctx context.Context, p *domain.Project) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE projects
		SET name = $2, client = $3, status = $4, budget_amount = $5, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Client, p.Status, p.BudgetAmount,
	)
	if err != nil {
		return fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("project", p.ID.String())
	}
	return nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("project", id.String())
	}
	return nil
}

func (r *Repository) ListProjects(ctx context.Context, status string, params pagination.Params) ([]*domain.Project, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+projectColumns+`, COUNT(*) OVER() AS total
		FROM projects
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		status, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	var total int64
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Client, &p.Status, &p.BudgetAmount, &p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, total, nil
}

const taskColumns = `id, project_id, title, status, due_date, created_at, updated_at`

func (r *Repository) CreateTask(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.ProjectID, t.Title, t.Status, t.DueDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("task", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (r *Repository) UpdateTask(ctx context.Context, t *domain.Task) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tasks
		SET title = $2, status = $3, due_date = $4, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Title, t.Status, t.DueDate,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("task", t.ID.String())
	}
	return nil
}

func (r *Repository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("task", id.String())
	}
	return nil
}

func (r *Repository) ListTasks(ctx context.Context, projectID uuid.UUID, status string, params pagination.Params) ([]*domain.Task, int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`, COUNT(*) OVER() AS total
		FROM tasks
		WHERE project_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY due_date NULLS LAST, created_at
		LIMIT $3 OFFSET $4`,
		projectID, status, params.PerPage, params.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	var total int64
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, total, nil
}
