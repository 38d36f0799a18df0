package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses.
const (
	ProjectStatusPlanned  = "planned"
	ProjectStatusActive   = "active"
	ProjectStatusOnHold   = "on_hold"
	ProjectStatusDone     = "done"
	ProjectStatusArchived = "archived"
)

var validProjectStatuses = map[string]struct{}{
	ProjectStatusPlanned:  {},
	ProjectStatusActive:   {},
	ProjectStatusOnHold:   {},
	ProjectStatusDone:     {},
	ProjectStatusArchived: {},
}

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	_, ok := validProjectStatuses[s]
	return ok
}

// Task statuses.
const (
	TaskStatusTodo  = "todo"
	TaskStatusDoing = "doing"
	TaskStatusDone  = "done"
)

var validTaskStatuses = map[string]struct{}{
	TaskStatusTodo:  {},
	TaskStatusDoing: {},
	TaskStatusDone:  {},
}

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s string) bool {
	_, ok := validTaskStatuses[s]
	return ok
}

// Project is a client engagement. BudgetAmount is in minor currency units.
type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Client       string    `json:"client"`
	Status       string    `json:"status"`
	BudgetAmount int64     `json:"budget_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
