package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/workforce/internal/workforce/auth"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/events"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirectoryService manages company and employee accounts: registration,
// credential verification, and tenant-scoped rosters.
type DirectoryService struct {
	repo      Repository
	tokens    *auth.TokenService
	producer  EventProducer
	logger    *zap.Logger
	decoyHash string
}

// NewDirectoryService constructs a DirectoryService. The decoy hash keeps
// credential verification on a miss indistinguishable from a mismatch.
func NewDirectoryService(repo Repository, tokens *auth.TokenService, producer EventProducer, logger *zap.Logger) (*DirectoryService, error) {
	decoy, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare decoy hash: %w", err)
	}
	return &DirectoryService{
		repo:      repo,
		tokens:    tokens,
		producer:  producer,
		logger:    logger.Named("directory_service"),
		decoyHash: decoy,
	}, nil
}

// RegisterCompanyInput carries the fields of a company registration.
type RegisterCompanyInput struct {
	CompanyName string
	Email       string
	Password    string
	Address     string
	PhoneNumber string
}

// RegisterCompany creates a new tenant and returns it with a signed token.
// Duplicate company names or emails fail with ErrConflict; the uniqueness
// check is the store's unique index, atomic with the insert.
func (s *DirectoryService) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*models.Company, string, error) {
	if in.CompanyName == "" || in.Email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: companyName, email and password are required", e.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	company := &models.Company{
		ID:           uuid.New(),
		CompanyName:  in.CompanyName,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
		RegisteredAt: time.Now(),
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, "", fmt.Errorf("%w: company with this name or email", e.ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to create company: %w", err)
	}

	token, err := s.tokens.Issue(models.Principal{
		ID:        company.ID,
		Type:      models.PrincipalCompany,
		CompanyID: company.ID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyRegistered, company.ID, company.ID)
	}()
	return company, token, nil
}

// LoginCompany verifies company credentials and issues a token. Unknown
// email and wrong password both fail with ErrInvalidCredentials, and both
// paths pay the same hash-comparison cost.
func (s *DirectoryService) LoginCompany(ctx context.Context, email, password string) (*models.Company, string, error) {
	company, err := s.repo.GetCompanyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			auth.CheckPassword(s.decoyHash, password)
			return nil, "", e.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up company: %w", err)
	}
	if !auth.CheckPassword(company.PasswordHash, password) {
		return nil, "", e.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(models.Principal{
		ID:        company.ID,
		Type:      models.PrincipalCompany,
		CompanyID: company.ID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return company, token, nil
}

// CompanyProfile returns the calling company's own record.
func (s *DirectoryService) CompanyProfile(ctx context.Context, principal models.Principal) (*models.Company, error) {
	if principal.Type != models.PrincipalCompany {
		return nil, e.ErrForbidden
	}
	company, err := s.repo.GetCompany(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// AddEmployeeInput carries the fields of an employee registration.
type AddEmployeeInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Position   string
	Department string
}

// AddEmployee creates a subordinate account under the calling company's
// tenant. The employee email is unique across the whole system, not per
// tenant.
func (s *DirectoryService) AddEmployee(ctx context.Context, principal models.Principal, in AddEmployeeInput) (*models.Employee, error) {
	if principal.Type != models.PrincipalCompany {
		return nil, e.ErrForbidden
	}
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: firstName, lastName, email and password are required", e.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := &models.Employee{
		ID:           uuid.New(),
		CompanyID:    principal.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Position:     in.Position,
		Department:   in.Department,
		JoinedAt:     time.Now(),
		IsActive:     true,
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, e.ErrConflict) {
			return nil, fmt.Errorf("%w: employee with this email", e.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	go func() {
		s.producer.Produce(events.EmployeeAdded, employee.ID, employee.CompanyID)
	}()
	return employee, nil
}

// LoginEmployee verifies employee credentials and issues a token bound to
// the employee's owning tenant.
func (s *DirectoryService) LoginEmployee(ctx context.Context, email, password string) (*models.Employee, string, error) {
	employee, err := s.repo.GetEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			auth.CheckPassword(s.decoyHash, password)
			return nil, "", e.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up employee: %w", err)
	}
	if !auth.CheckPassword(employee.PasswordHash, password) {
		return nil, "", e.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(models.Principal{
		ID:        employee.ID,
		Type:      models.PrincipalEmployee,
		CompanyID: employee.CompanyID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return employee, token, nil
}

// CompanyEmployees lists the calling company's roster.
func (s *DirectoryService) CompanyEmployees(ctx context.Context, principal models.Principal) ([]models.Employee, error) {
	if principal.Type != models.PrincipalCompany {
		return nil, e.ErrForbidden
	}
	employees, err := s.repo.ListEmployeesByCompany(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}
