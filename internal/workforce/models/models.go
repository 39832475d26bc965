// Package models defines the core domain models for the workforce service:
// the Company tenant, its Employees, the Tasks assigned to them, and the
// Principal identity derived from a verified bearer token.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a Task.
type TaskStatus string

const (
	// StatusPending is the initial state of every task.
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a status literal. Any value outside the three
// lifecycle states is rejected.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// TaskPriority represents the urgency of a Task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority validates a priority literal. The empty string maps to
// the medium default.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("unknown task priority %q", s)
}

// PrincipalType distinguishes the two kinds of authenticated callers.
type PrincipalType string

const (
	PrincipalCompany  PrincipalType = "company"
	PrincipalEmployee PrincipalType = "employee"
)

// ParsePrincipalType validates a principal type literal.
func ParsePrincipalType(s string) (PrincipalType, error) {
	switch PrincipalType(s) {
	case PrincipalCompany, PrincipalEmployee:
		return PrincipalType(s), nil
	}
	return "", fmt.Errorf("unknown principal type %q", s)
}

// Principal is the authenticated identity threaded through the call chain.
// CompanyID is always set: for a company principal it equals ID, for an
// employee principal it names the owning tenant.
type Principal struct {
	ID        uuid.UUID
	Type      PrincipalType
	CompanyID uuid.UUID
}

// Company is the root tenant entity. Every Employee and Task is scoped
// under a company ID.
type Company struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName  string    `gorm:"size:255;uniqueIndex;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Address      string    `gorm:"size:500"`
	PhoneNumber  string    `gorm:"size:50"`
	RegisteredAt time.Time
}

// Employee is a subordinate account owned by exactly one Company.
// The email is unique across all tenants, not per tenant.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID `gorm:"type:uuid;index;not null"`
	FirstName    string    `gorm:"size:255;not null"`
	LastName     string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Position     string    `gorm:"size:255"`
	Department   string    `gorm:"size:255"`
	JoinedAt     time.Time
	IsActive     bool      `gorm:"default:true"`
}

// Task is a unit of work created by a Company and assigned to one of its
// Employees. Invariant: CompanyID always equals the assignee's CompanyID.
type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID    `gorm:"type:uuid;index;not null"`
	AssignedTo  uuid.UUID    `gorm:"type:uuid;index;not null"`
	Title       string       `gorm:"size:255;not null"`
	Description string       `gorm:"size:3000"`
	DueDate     *time.Time
	Status      TaskStatus   `gorm:"size:20;default:pending"`
	Priority    TaskPriority `gorm:"size:20;default:medium"`
	CreatedAt   time.Time
}

// TaskAssignee carries the display fields of a task's assignee, resolved
// for company-side listings. A read-only projection, not an ownership link.
type TaskAssignee struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

// TaskWithAssignee pairs a Task with its assignee projection.
type TaskWithAssignee struct {
	Task
	Assignee TaskAssignee
}
