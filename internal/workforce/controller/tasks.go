package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService owns the task registry: tenant-scoped creation and listing,
// and the status state machine.
type TaskService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewTaskService constructs a TaskService with a repository, an event
// producer, and a logger.
func NewTaskService(repo Repository, producer EventProducer, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("task_service"),
	}
}

// CreateTaskInput carries the fields of a task creation request.
type CreateTaskInput struct {
	AssignedTo  uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
}

// CreateTask creates a task in the calling company's tenant. The assignee
// must be an employee of that same company; an unknown or cross-tenant
// assignee fails with ErrNotFound. New tasks start as pending.
func (s *TaskService) CreateTask(ctx context.Context, principal models.Principal, in CreateTaskInput) (*models.Task, error) {
	if principal.Type != models.PrincipalCompany {
		return nil, e.ErrForbidden
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", e.ErrInvalidInput)
	}
	priority, err := models.ParseTaskPriority(in.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	assignee, err := s.repo.GetEmployee(ctx, in.AssignedTo)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignee", e.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}
	// Cross-tenant assignment is indistinguishable from an unknown assignee.
	if assignee.CompanyID != principal.ID {
		return nil, fmt.Errorf("%w: assignee", e.ErrNotFound)
	}

	task := &models.Task{
		ID:          uuid.New(),
		CompanyID:   principal.ID,
		AssignedTo:  assignee.ID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      models.StatusPending,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	go func() {
		s.producer.Produce(events.TaskCreated, task.ID, task.CompanyID)
	}()
	return task, nil
}

// CompanyTasks lists every task owned by the calling company, with the
// assignee's display fields resolved.
func (s *TaskService) CompanyTasks(ctx context.Context, principal models.Principal) ([]models.TaskWithAssignee, error) {
	if principal.Type != models.PrincipalCompany {
		return nil, e.ErrForbidden
	}
	tasks, err := s.repo.ListTasksByCompany(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company tasks: %w", err)
	}
	return tasks, nil
}

// EmployeeTasks lists the tasks assigned to the calling employee.
func (s *TaskService) EmployeeTasks(ctx context.Context, principal models.Principal) ([]models.Task, error) {
	if principal.Type != models.PrincipalEmployee {
		return nil, e.ErrForbidden
	}
	tasks, err := s.repo.ListTasksByAssignee(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus moves a task to a new lifecycle state. Any transition
// among the three states is permitted, but only the owning company or the
// assigned employee may perform it.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, principal models.Principal, taskID uuid.UUID, status string) (*models.Task, error) {
	newStatus, err := models.ParseTaskStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	switch principal.Type {
	case models.PrincipalCompany:
		if task.CompanyID != principal.ID {
			return nil, e.ErrForbidden
		}
	case models.PrincipalEmployee:
		if task.AssignedTo != principal.ID {
			return nil, e.ErrForbidden
		}
	default:
		return nil, e.ErrForbidden
	}

	if err := s.repo.UpdateTaskStatus(ctx, taskID, newStatus); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	updated, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		s.logger.Error("Failed to get task after status update",
			zap.Error(err),
			zap.String("task_id", taskID.String()),
		)
		return nil, err
	}

	go func() {
		s.producer.Produce(events.TaskStatusChanged, updated.ID, updated.CompanyID)
	}()
	return updated, nil
}
