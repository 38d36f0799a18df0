package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/owltechengineer/ecoceo-sub006/internal/tracker/service"
	apperrors "github.com/owltechengineer/ecoceo-sub006/pkg/errors"
	"github.com/owltechengineer/ecoceo-sub006/pkg/httputil"
	"github.com/owltechengineer/ecoceo-sub006/pkg/pagination"
	"github.com/owltechengineer/ecoceo-sub006/pkg/validator"
)

const dateLayout = "2006-01-02"

// TrackerHandler serves project and task endpoints for the back office.
type TrackerHandler struct {
	service *service.TrackerService
	logger  *slog.Logger
}

func NewTrackerHandler(svc *service.TrackerService, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{service: svc, logger: logger}
}

// RegisterRoutes mounts the tracker routes.
func (h *TrackerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Get("/{projectID}", h.GetProject)
		r.Put("/{projectID}", h.UpdateProject)
		r.Delete("/{projectID}", h.DeleteProject)
		r.Get("/{projectID}/tasks", h.ListTasks)
		r.Post("/{projectID}/tasks", h.CreateTask)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Put("/{taskID}", h.UpdateTask)
		r.Delete("/{taskID}", h.DeleteTask)
	})
}

type createProjectRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Client       string `json:"client" validate:"required,max=200"`
	BudgetAmount int64  `json:"budget_amount" validate:"gte=0"`
}

func (h *TrackerHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	project, err := h.service.CreateProject(r.Context(), service.CreateProjectInput{
		Name:         req.Name,
		Client:       req.Client,
		BudgetAmount: req.BudgetAmount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: project})
}

func (h *TrackerHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: project})
}

type updateProjectRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Client       string `json:"client" validate:"required,max=200"`
	Status       string `json:"status" validate:"required"`
	BudgetAmount int64  `json:"budget_amount" validate:"gte=0"`
}

func (h *TrackerHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, service.UpdateProjectInput{
		Name:         req.Name,
		Client:       req.Client,
		Status:       req.Status,
		BudgetAmount: req.BudgetAmount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: project})
}

func (h *TrackerHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackerHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	projects, total, err := h.service.ListProjects(r.Context(), r.URL.Query().Get("status"), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(projects, int(total), params),
	})
}

type createTaskRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *TrackerHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := httputil.ParseUUID(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	var req createTaskRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	in := service.CreateTaskInput{Title: req.Title}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid due date"), h.logger)
			return
		}
		in.DueDate = &due
	}

	task, err := h.service.CreateTask(r.Context(), projectID, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: task})
}

type updateTaskRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Status  string `json:"status" validate:"required"`
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *TrackerHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	in := service.UpdateTaskInput{Title: req.Title, Status: req.Status}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid due date"), h.logger)
			return
		}
		in.DueDate = &due
	}

	task, err := h.service.UpdateTask(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: task})
}

func (h *TrackerHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "taskID"))
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackerHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := httputil.ParseUUID(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	params := pagination.FromRequest(r)
	tasks, total, err := h.service.ListTasks(r.Context(), projectID, r.URL.Query().Get("status"), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(tasks, int(total), params),
	})
}
