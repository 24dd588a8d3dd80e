package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RolePending    UserRole = "pending"
	RoleStudent    UserRole = "student"
	RoleSupervisor UserRole = "supervisor"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePending, RoleStudent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	ExternalID   string    `db:"external_id" json:"externalId"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	Role         UserRole  `db:"role" json:"role"`
	StudentID    *string   `db:"student_id" json:"studentId,omitempty"`
	NIDN         *string   `db:"nidn" json:"nidn,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Caller is the resolved identity of the user performing an operation.
type Caller struct {
	UserID   string   `json:"userId"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
}

// CallerFromUser builds the caller identity for a stored user.
func CallerFromUser(user *User) *Caller {
	if user == nil {
		return nil
	}
	return &Caller{UserID: user.ID, Role: user.Role, Email: user.Email, FullName: user.FullName}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
