// Package db implements the gorm-backed repository for companies,
// employees, and tasks. Uniqueness (company name, company email, employee
// email) is enforced by unique indexes so that concurrent inserts resolve
// at the store, not by a check-then-insert race in application code.
package db

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection, running migrations. The
// connection must have been opened with TranslateError so duplicate-key
// violations surface as gorm.ErrDuplicatedKey.
func NewWithDB(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&models.Company{}, &models.Employee{}, &models.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrConflict
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).First(&employee, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &employee, nil
}

func (r *Repository) ListEmployeesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("joined_at").
		Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}
	return employees, nil
}

func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Create(task)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListTasksByCompany returns every task owned by the company, each with the
// assignee's display fields resolved in a single batched lookup.
func (r *Repository) ListTasksByCompany(ctx context.Context, companyID uuid.UUID) ([]models.TaskWithAssignee, error) {
	var tasks []models.Task
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	assigneeIDs := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		if !seen[t.AssignedTo] {
			seen[t.AssignedTo] = true
			assigneeIDs = append(assigneeIDs, t.AssignedTo)
		}
	}

	assignees := make(map[uuid.UUID]models.TaskAssignee, len(assigneeIDs))
	if len(assigneeIDs) > 0 {
		var employees []models.Employee
		result := r.db.WithContext(ctx).
			Where("id IN ?", assigneeIDs).
			Find(&employees)
		if result.Error != nil {
			return nil, result.Error
		}
		for _, emp := range employees {
			assignees[emp.ID] = models.TaskAssignee{
				ID:        emp.ID,
				FirstName: emp.FirstName,
				LastName:  emp.LastName,
				Email:     emp.Email,
			}
		}
	}

	out := make([]models.TaskWithAssignee, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, models.TaskWithAssignee{
			Task:     t,
			Assignee: assignees[t.AssignedTo],
		})
	}
	return out, nil
}

func (r *Repository) ListTasksByAssignee(ctx context.Context, employeeID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	result := r.db.WithContext(ctx).
		Where("assigned_to = ?", employeeID).
		Order("created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// UpdateTaskStatus writes the new status unconditionally; concurrent
// writers resolve last-write-wins at the store.
func (r *Repository) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
