// Package controller implements the core business logic (service layer)
// for the workforce service: credential issuance and verification for
// companies and employees, and the tenant-scoped task registry.
package controller

import (
	"context"

	"github.com/gartstein/workforce/internal/workforce/db"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/google/uuid"
)

// EventProducer publishes domain events without blocking the caller.
type EventProducer interface {
	Produce(eventType events.EventType, subjectID, companyID uuid.UUID)
}

// Repository defines the storage interface for companies, employees,
// and tasks.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasksByCompany(ctx context.Context, companyID uuid.UUID) ([]models.TaskWithAssignee, error)
	ListTasksByAssignee(ctx context.Context, employeeID uuid.UUID) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) error
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}
