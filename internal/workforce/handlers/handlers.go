// Package handlers provides the REST transport for the workforce service,
// bridging gin requests and the service layer and translating service
// errors into the public status-code contract.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/gartstein/workforce/internal/workforce/controller"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirectoryController defines the account-management interface the REST
// handlers invoke.
type DirectoryController interface {
	RegisterCompany(ctx context.Context, in controller.RegisterCompanyInput) (*models.Company, string, error)
	LoginCompany(ctx context.Context, email, password string) (*models.Company, string, error)
	CompanyProfile(ctx context.Context, principal models.Principal) (*models.Company, error)
	AddEmployee(ctx context.Context, principal models.Principal, in controller.AddEmployeeInput) (*models.Employee, error)
	LoginEmployee(ctx context.Context, email, password string) (*models.Employee, string, error)
	CompanyEmployees(ctx context.Context, principal models.Principal) ([]models.Employee, error)
}

// TaskController defines the task-registry interface the REST handlers
// invoke.
type TaskController interface {
	CreateTask(ctx context.Context, principal models.Principal, in controller.CreateTaskInput) (*models.Task, error)
	CompanyTasks(ctx context.Context, principal models.Principal) ([]models.TaskWithAssignee, error)
	EmployeeTasks(ctx context.Context, principal models.Principal) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, principal models.Principal, taskID uuid.UUID, status string) (*models.Task, error)
}

// Handler holds the service interfaces behind the REST endpoints.
type Handler struct {
	directory DirectoryController
	tasks     TaskController
	logger    *zap.Logger
}

// NewHandler constructs a Handler with the given services and logger.
func NewHandler(directory DirectoryController, tasks TaskController, logger *zap.Logger) *Handler {
	return &Handler{
		directory: directory,
		tasks:     tasks,
		logger:    logger.Named("http_handler"),
	}
}

type registerCompanyRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

// RegisterCompany handles POST /companies/register.
func (h *Handler) RegisterCompany(c *gin.Context) {
	var req registerCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	company, token, err := h.directory.RegisterCompany(c.Request.Context(), controller.RegisterCompanyInput{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Password:    req.Password,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"company": companyToResponse(company),
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginCompany handles POST /companies/login.
func (h *Handler) LoginCompany(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	company, token, err := h.directory.LoginCompany(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company": companyToResponse(company),
		"token":   token,
	})
}

// CompanyProfile handles GET /companies/profile.
func (h *Handler) CompanyProfile(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	company, err := h.directory.CompanyProfile(c.Request.Context(), principal)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, companyToResponse(company))
}

type addEmployeeRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// AddEmployee handles POST /employees/add.
func (h *Handler) AddEmployee(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	employee, err := h.directory.AddEmployee(c.Request.Context(), principal, controller.AddEmployeeInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Position:   req.Position,
		Department: req.Department,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employeeToResponse(employee))
}

// LoginEmployee handles POST /employees/login.
func (h *Handler) LoginEmployee(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	employee, token, err := h.directory.LoginEmployee(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employee": employeeToResponse(employee),
		"token":    token,
	})
}

// CompanyEmployees handles GET /employees/company-employees.
func (h *Handler) CompanyEmployees(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	employees, err := h.directory.CompanyEmployees(c.Request.Context(), principal)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, employeesToResponse(employees))
}

type createTaskRequest struct {
	AssignedTo  string     `json:"assignedTo" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
}

// CreateTask handles POST /tasks/create.
func (h *Handler) CreateTask(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	assignedTo, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignedTo"})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), principal, controller.CreateTaskInput{
		AssignedTo:  assignedTo,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskToResponse(task))
}

// CompanyTasks handles GET /tasks/company-tasks.
func (h *Handler) CompanyTasks(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.tasks.CompanyTasks(c.Request.Context(), principal)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, companyTasksToResponse(tasks))
}

// EmployeeTasks handles GET /tasks/employee-tasks.
func (h *Handler) EmployeeTasks(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.tasks.EmployeeTasks(c.Request.Context(), principal)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasksToResponse(tasks))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus handles PATCH /tasks/:id/status.
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c.Request.Context(), principal, taskID, req.Status)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskToResponse(task))
}

// abortWithError maps service errors onto the public status-code contract.
// Unknown errors are logged and surfaced as a generic 500.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput),
		errors.Is(err, e.ErrConflict),
		errors.Is(err, e.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
