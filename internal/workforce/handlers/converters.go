package handlers

import (
	"time"

	"github.com/gartstein/workforce/internal/workforce/models"
)

// Response DTOs mirror the source system's JSON field names so existing
// consumers keep working. Secret hash fields are never serialized.

type companyResponse struct {
	ID           string    `json:"id"`
	CompanyName  string    `json:"companyName"`
	Email        string    `json:"email"`
	Address      string    `json:"address,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type employeeResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Position   string    `json:"position,omitempty"`
	Department string    `json:"department,omitempty"`
	JoinedAt   time.Time `json:"joinedAt"`
	IsActive   bool      `json:"isActive"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"companyId"`
	AssignedTo  string     `json:"assignedTo"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type assigneeResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type companyTaskResponse struct {
	taskResponse
	Assignee assigneeResponse `json:"assignee"`
}

func companyToResponse(company *models.Company) companyResponse {
	return companyResponse{
		ID:           company.ID.String(),
		CompanyName:  company.CompanyName,
		Email:        company.Email,
		Address:      company.Address,
		PhoneNumber:  company.PhoneNumber,
		RegisteredAt: company.RegisteredAt,
	}
}

func employeeToResponse(employee *models.Employee) employeeResponse {
	return employeeResponse{
		ID:         employee.ID.String(),
		CompanyID:  employee.CompanyID.String(),
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		Email:      employee.Email,
		Position:   employee.Position,
		Department: employee.Department,
		JoinedAt:   employee.JoinedAt,
		IsActive:   employee.IsActive,
	}
}

func employeesToResponse(employees []models.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, employeeToResponse(&employees[i]))
	}
	return out
}

func taskToResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID.String(),
		CompanyID:   task.CompanyID.String(),
		AssignedTo:  task.AssignedTo.String(),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt,
	}
}

func tasksToResponse(tasks []models.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskToResponse(&tasks[i]))
	}
	return out
}

func companyTasksToResponse(tasks []models.TaskWithAssignee) []companyTaskResponse {
	out := make([]companyTaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, companyTaskResponse{
			taskResponse: taskToResponse(&tasks[i].Task),
			Assignee: assigneeResponse{
				ID:        tasks[i].Assignee.ID.String(),
				FirstName: tasks[i].Assignee.FirstName,
				LastName:  tasks[i].Assignee.LastName,
				Email:     tasks[i].Assignee.Email,
			},
		})
	}
	return out
}
