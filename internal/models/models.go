package models

import "time"

// Role is the closed set of principal roles. Stored lowercase.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func ParseRole(v string) (Role, bool) {
	switch Role(v) {
	case RoleCitizen, RoleEmployee, RoleAdmin:
		return Role(v), true
	}
	return "", false
}

// RequestStatus values. Transitions only move forward:
// pending -> assigned -> in_progress -> completed; closed is terminal.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusClosed     RequestStatus = "closed"
)

func ParseStatus(v string) (RequestStatus, bool) {
	switch RequestStatus(v) {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusClosed:
		return RequestStatus(v), true
	}
	return "", false
}

// Priority is the closed severity set. medium is the default used whenever
// classification fails or returns something outside the set.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(v string) (Priority, bool) {
	switch Priority(v) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(v), true
	}
	return "", false
}

// Rank orders priorities for sorting; higher means more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Specialty struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Employee struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	SpecialtyID    int64     `json:"specialty_id"`
	OrganizationID int64     `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Request struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	ProblemType *string  `json:"problem_type,omitempty"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	PhotoURL    *string  `json:"photo_url,omitempty"`

	// AI enrichment, filled best-effort after the row exists.
	AIDescription    *string `json:"ai_description,omitempty"`
	AICategory       *string `json:"ai_category,omitempty"`
	AIRecommendation *string `json:"ai_recommendation,omitempty"`

	Status   RequestStatus `json:"status"`
	Priority Priority      `json:"priority"`

	CompletionPhotoURL *string    `json:"completion_photo_url,omitempty"`
	CompletionNote     *string    `json:"completion_note,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	CategoryID int64     `json:"category_id"`
	CreatorID  int64     `json:"creator_id"`
	AssigneeID *int64    `json:"assignee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Rating struct {
	ID         int64     `json:"id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	RequestID  int64     `json:"request_id"`
	UserID     int64     `json:"user_id"`
	EmployeeID int64     `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
