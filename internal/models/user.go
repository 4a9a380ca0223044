package models

// UserRole mirrors domain.UserRole at the storage layer.
type UserRole string

// User maps to the users table.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	FCMToken     string   `json:"-"`
	AuditFields
}
