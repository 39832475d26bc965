package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/gartstein/workforce/internal/workforce/db"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockRepository implements the Repository interface for testing.
type MockRepository struct {
	createCompany          func(context.Context, *models.Company) error
	getCompany             func(context.Context, uuid.UUID) (*models.Company, error)
	getCompanyByEmail      func(context.Context, string) (*models.Company, error)
	createEmployee         func(context.Context, *models.Employee) error
	getEmployee            func(context.Context, uuid.UUID) (*models.Employee, error)
	getEmployeeByEmail     func(context.Context, string) (*models.Employee, error)
	listEmployeesByCompany func(context.Context, uuid.UUID) ([]models.Employee, error)
	createTask             func(context.Context, *models.Task) error
	getTask                func(context.Context, uuid.UUID) (*models.Task, error)
	listTasksByCompany     func(context.Context, uuid.UUID) ([]models.TaskWithAssignee, error)
	listTasksByAssignee    func(context.Context, uuid.UUID) ([]models.Task, error)
	updateTaskStatus       func(context.Context, uuid.UUID, models.TaskStatus) error
}

func (m *MockRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.getCompany(ctx, id)
}

func (m *MockRepository) GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	return m.getCompanyByEmail(ctx, email)
}

func (m *MockRepository) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return m.createEmployee(ctx, emp)
}

func (m *MockRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return m.getEmployee(ctx, id)
}

func (m *MockRepository) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return m.getEmployeeByEmail(ctx, email)
}

func (m *MockRepository) ListEmployeesByCompany(ctx context.Context, id uuid.UUID) ([]models.Employee, error) {
	return m.listEmployeesByCompany(ctx, id)
}

func (m *MockRepository) CreateTask(ctx context.Context, task *models.Task) error {
	return m.createTask(ctx, task)
}

func (m *MockRepository) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return m.getTask(ctx, id)
}

func (m *MockRepository) ListTasksByCompany(ctx context.Context, id uuid.UUID) ([]models.TaskWithAssignee, error) {
	return m.listTasksByCompany(ctx, id)
}

func (m *MockRepository) ListTasksByAssignee(ctx context.Context, id uuid.UUID) ([]models.Task, error) {
	return m.listTasksByAssignee(ctx, id)
}

func (m *MockRepository) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) error {
	return m.updateTaskStatus(ctx, id, status)
}

func (m *MockRepository) WithTransaction(_ context.Context, _ func(*db.Repository) error) error {
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}

// MockProducer records produced events and signals the wait group.
type MockProducer struct {
	mu             sync.Mutex
	producedEvents []events.EventType
	wg             *sync.WaitGroup
}

func (m *MockProducer) Produce(eventType events.EventType, _, _ uuid.UUID) {
	m.mu.Lock()
	m.producedEvents = append(m.producedEvents, eventType)
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	return tokens
}

func newTestDirectory(t *testing.T, repo Repository, producer EventProducer) *DirectoryService {
	t.Helper()
	svc, err := NewDirectoryService(repo, newTestTokens(t), producer, zaptest.NewLogger(t))
	require.NoError(t, err)
	return svc
}

func TestDirectoryService_RegisterCompany(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterCompanyInput
		mockSetup     func(*MockRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			input: RegisterCompanyInput{
				CompanyName: "Acme",
				Email:       "a@x.com",
				Password:    "secret1",
			},
			mockSetup: func(mr *MockRepository) {
				mr.createCompany = func(_ context.Context, c *models.Company) error {
					return nil
				}
			},
		},
		{
			name: "duplicate name or email",
			input: RegisterCompanyInput{
				CompanyName: "Acme",
				Email:       "a@x.com",
				Password:    "secret1",
			},
			mockSetup: func(mr *MockRepository) {
				mr.createCompany = func(_ context.Context, _ *models.Company) error {
					return e.ErrConflict
				}
			},
			expectedError: e.ErrConflict,
		},
		{
			name: "missing fields",
			input: RegisterCompanyInput{
				CompanyName: "Acme",
			},
			mockSetup:     func(_ *MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			tt.mockSetup(repo)
			svc := newTestDirectory(t, repo, &MockProducer{})

			company, token, err := svc.RegisterCompany(context.Background(), tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.NotEqual(t, tt.input.Password, company.PasswordHash, "password must be hashed")
			assert.True(t, auth.CheckPassword(company.PasswordHash, tt.input.Password))
		})
	}
}

func TestDirectoryService_RegisterCompanyProducesEvent(t *testing.T) {
	repo := &MockRepository{
		createCompany: func(_ context.Context, _ *models.Company) error { return nil },
	}
	var wg sync.WaitGroup
	wg.Add(1)
	producer := &MockProducer{wg: &wg}
	svc := newTestDirectory(t, repo, producer)

	_, _, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		CompanyName: "Acme",
		Email:       "a@x.com",
		Password:    "secret1",
	})
	require.NoError(t, err)

	wg.Wait()
	assert.Equal(t, []events.EventType{events.CompanyRegistered}, producer.producedEvents)
}

func TestDirectoryService_LoginCompany(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	companyID := uuid.New()
	stored := &models.Company{
		ID:           companyID,
		CompanyName:  "Acme",
		Email:        "a@x.com",
		PasswordHash: hash,
	}

	repo := &MockRepository{
		getCompanyByEmail: func(_ context.Context, email string) (*models.Company, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, e.ErrNotFound
		},
	}
	svc := newTestDirectory(t, repo, &MockProducer{})
	tokens := newTestTokens(t)

	t.Run("correct password yields matching principal", func(t *testing.T) {
		company, token, err := svc.LoginCompany(context.Background(), "a@x.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, companyID, company.ID)

		principal, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, companyID, principal.ID)
		assert.Equal(t, models.PrincipalCompany, principal.Type)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.LoginCompany(context.Background(), "a@x.com", "wrong")
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, _, err := svc.LoginCompany(context.Background(), "nobody@x.com", "secret1")
		assert.ErrorIs(t, err, e.ErrInvalidCredentials)
	})
}

func TestDirectoryService_AddEmployee(t *testing.T) {
	companyID := uuid.New()
	companyPrincipal := models.Principal{
		ID:        companyID,
		Type:      models.PrincipalCompany,
		CompanyID: companyID,
	}

	t.Run("scopes employee to the calling company", func(t *testing.T) {
		var created *models.Employee
		repo := &MockRepository{
			createEmployee: func(_ context.Context, emp *models.Employee) error {
				created = emp
				return nil
			},
		}
		svc := newTestDirectory(t, repo, &MockProducer{})

		employee, err := svc.AddEmployee(context.Background(), companyPrincipal, AddEmployeeInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "e@x.com",
			Password:  "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, companyID, employee.CompanyID)
		assert.True(t, employee.IsActive)
		require.NotNil(t, created)
		assert.Equal(t, companyID, created.CompanyID)
	})

	t.Run("employee principal is forbidden", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newTestDirectory(t, repo, &MockProducer{})

		_, err := svc.AddEmployee(context.Background(), models.Principal{
			ID:        uuid.New(),
			Type:      models.PrincipalEmployee,
			CompanyID: companyID,
		}, AddEmployeeInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "e@x.com",
			Password:  "secret1",
		})
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("duplicate email anywhere conflicts", func(t *testing.T) {
		repo := &MockRepository{
			createEmployee: func(_ context.Context, _ *models.Employee) error {
				return e.ErrConflict
			},
		}
		svc := newTestDirectory(t, repo, &MockProducer{})

		_, err := svc.AddEmployee(context.Background(), companyPrincipal, AddEmployeeInput{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "e@x.com",
			Password:  "secret1",
		})
		assert.ErrorIs(t, err, e.ErrConflict)
	})
}

func TestTaskService_CreateTask(t *testing.T) {
	companyID := uuid.New()
	otherCompanyID := uuid.New()
	employeeID := uuid.New()
	principal := models.Principal{
		ID:        companyID,
		Type:      models.PrincipalCompany,
		CompanyID: companyID,
	}

	tests := []struct {
		name          string
		input         CreateTaskInput
		mockSetup     func(*MockRepository)
		expectedError error
		check         func(*testing.T, *models.Task)
	}{
		{
			name: "successful creation with defaults",
			input: CreateTaskInput{
				AssignedTo: employeeID,
				Title:      "Ship the report",
			},
			mockSetup: func(mr *MockRepository) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return &models.Employee{ID: employeeID, CompanyID: companyID}, nil
				}
				mr.createTask = func(_ context.Context, _ *models.Task) error { return nil }
			},
			check: func(t *testing.T, task *models.Task) {
				assert.Equal(t, models.StatusPending, task.Status)
				assert.Equal(t, models.PriorityMedium, task.Priority)
				assert.Equal(t, companyID, task.CompanyID)
			},
		},
		{
			name: "assignee in another tenant",
			input: CreateTaskInput{
				AssignedTo: employeeID,
				Title:      "Ship the report",
			},
			mockSetup: func(mr *MockRepository) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return &models.Employee{ID: employeeID, CompanyID: otherCompanyID}, nil
				}
			},
			expectedError: e.ErrNotFound,
		},
		{
			name: "unknown assignee",
			input: CreateTaskInput{
				AssignedTo: employeeID,
				Title:      "Ship the report",
			},
			mockSetup: func(mr *MockRepository) {
				mr.getEmployee = func(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
					return nil, e.ErrNotFound
				}
			},
			expectedError: e.ErrNotFound,
		},
		{
			name: "invalid priority",
			input: CreateTaskInput{
				AssignedTo: employeeID,
				Title:      "Ship the report",
				Priority:   "urgent",
			},
			mockSetup:     func(_ *MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name: "missing title",
			input: CreateTaskInput{
				AssignedTo: employeeID,
			},
			mockSetup:     func(_ *MockRepository) {},
			expectedError: e.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			tt.mockSetup(repo)
			svc := NewTaskService(repo, &MockProducer{}, zaptest.NewLogger(t))

			task, err := svc.CreateTask(context.Background(), principal, tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			tt.check(t, task)
		})
	}
}

func TestTaskService_UpdateTaskStatus(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()
	taskID := uuid.New()

	storedTask := func() *models.Task {
		return &models.Task{
			ID:         taskID,
			CompanyID:  companyID,
			AssignedTo: employeeID,
			Title:      "Ship the report",
			Status:     models.StatusPending,
			Priority:   models.PriorityMedium,
			CreatedAt:  time.Now(),
		}
	}

	newRepo := func() *MockRepository {
		current := storedTask()
		return &MockRepository{
			getTask: func(_ context.Context, id uuid.UUID) (*models.Task, error) {
				if id == taskID {
					copied := *current
					return &copied, nil
				}
				return nil, e.ErrNotFound
			},
			updateTaskStatus: func(_ context.Context, id uuid.UUID, status models.TaskStatus) error {
				if id != taskID {
					return e.ErrNotFound
				}
				current.Status = status
				return nil
			},
		}
	}

	assignedEmployee := models.Principal{
		ID:        employeeID,
		Type:      models.PrincipalEmployee,
		CompanyID: companyID,
	}
	owningCompany := models.Principal{
		ID:        companyID,
		Type:      models.PrincipalCompany,
		CompanyID: companyID,
	}

	t.Run("assigned employee may update", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		task, err := svc.UpdateTaskStatus(context.Background(), assignedEmployee, taskID, "completed")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, task.Status)
	})

	t.Run("owning company may update", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		task, err := svc.UpdateTaskStatus(context.Background(), owningCompany, taskID, "in-progress")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, task.Status)
	})

	t.Run("completed is re-openable", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		_, err := svc.UpdateTaskStatus(context.Background(), assignedEmployee, taskID, "completed")
		require.NoError(t, err)
		task, err := svc.UpdateTaskStatus(context.Background(), assignedEmployee, taskID, "pending")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, task.Status)
	})

	t.Run("unassigned employee is forbidden", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		_, err := svc.UpdateTaskStatus(context.Background(), models.Principal{
			ID:        uuid.New(),
			Type:      models.PrincipalEmployee,
			CompanyID: companyID,
		}, taskID, "completed")
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("foreign company is forbidden", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		other := uuid.New()
		_, err := svc.UpdateTaskStatus(context.Background(), models.Principal{
			ID:        other,
			Type:      models.PrincipalCompany,
			CompanyID: other,
		}, taskID, "completed")
		assert.ErrorIs(t, err, e.ErrForbidden)
	})

	t.Run("invalid status literal", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		_, err := svc.UpdateTaskStatus(context.Background(), assignedEmployee, taskID, "archived")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("unknown task", func(t *testing.T) {
		svc := NewTaskService(newRepo(), &MockProducer{}, zaptest.NewLogger(t))
		_, err := svc.UpdateTaskStatus(context.Background(), assignedEmployee, uuid.New(), "completed")
		assert.ErrorIs(t, err, e.ErrNotFound)
	})
}
