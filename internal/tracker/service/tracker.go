package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/owltechengineer/ecoceo-sub006/internal/tracker/domain"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
)

// Repository is the persistence surface the tracker service needs.
type Repository interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context, status string, params pagination.Params) ([]*domain.Project, int64, error)

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListTasks(ctx context.Context, projectID uuid.UUID, status string, params pagination.Params) ([]*domain.Task, int64, error)
}

// TrackerService manages client projects and their tasks.
type TrackerService struct {
	repo   Repository
	logger *slog.Logger
}

func NewTrackerService(repo Repository, logger *slog.Logger) *TrackerService {
	return &TrackerService{repo: repo, logger: logger}
}

// CreateProjectInput carries new-project fields.
type CreateProjectInput struct {
	Name         string
	Client       string
	BudgetAmount int64
}

func (s *TrackerService) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	if in.Name == "" {
		return nil, apperrors.InvalidInput("project name is required")
	}
	if in.Client == "" {
		return nil, apperrors.InvalidInput("client is required")
	}
	if in.BudgetAmount < 0 {
		return nil, apperrors.InvalidInput("budget must not be negative")
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:           uuid.New(),
		Name:         in.Name,
		Client:       in.Client,
		Status:       domain.ProjectStatusPlanned,
		BudgetAmount: in.BudgetAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		slog.String("project_id", project.ID.String()),
		slog.String("client", project.Client),
	)
	return project, nil
}

func (s *TrackerService) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.repo.GetProject(ctx, id)
}

// UpdateProjectInput carries mutable project fields.
type UpdateProjectInput struct {
	Name         string
	Client       string
	Status       string
	BudgetAmount int64
}

func (s *TrackerService) UpdateProject(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*domain.Project, error) {
	if in.Name == "" {
		return nil, apperrors.InvalidInput("project name is required")
	}
	if !domain.IsValidProjectStatus(in.Status) {
		return nil, apperrors.InvalidInput("unknown project status: " + in.Status)
	}
	if in.BudgetAmount < 0 {
		return nil, apperrors.InvalidInput("budget must not be negative")
	}

	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.Client = in.Client
	project.Status = in.Status
	project.BudgetAmount = in.BudgetAmount
	project.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *TrackerService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProject(ctx, id)
}

func (s *TrackerService) ListProjects(ctx context.Context, status string, params pagination.Params) ([]*domain.Project, int64, error) {
	if status != "" && !domain.IsValidProjectStatus(status) {
		return nil, 0, apperrors.InvalidInput("unknown project status: " + status)
	}
	return s.repo.ListProjects(ctx, status, params)
}

// CreateTaskInput carries new-task fields.
type CreateTaskInput struct {
	Title   string
	DueDate *time.Time
}

func (s *TrackerService) CreateTask(ctx context.Context, projectID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, apperrors.InvalidInput("task title is required")
	}

	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     in.Title,
		Status:    domain.TaskStatusTodo,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskInput carries mutable task fields.
type UpdateTaskInput struct {
	Title   string
	Status  string
	DueDate *time.Time
}

func (s *TrackerService) UpdateTask(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, apperrors.InvalidInput("task title is required")
	}
	if !domain.IsValidTaskStatus(in.Status) {
		return nil, apperrors.InvalidInput("unknown task status: " + in.Status)
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Status = in.Status
	task.DueDate = in.DueDate
	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TrackerService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTask(ctx, id)
}

func (s *TrackerService) ListTasks(ctx context.Context, projectID uuid.UUID, status string, params pagination.Params) ([]*domain.Task, int64, error) {
	if status != "" && !domain.IsValidTaskStatus(status) {
		return nil, 0, apperrors.InvalidInput("unknown task status: " + status)
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListTasks(ctx, projectID, status, params)
}
