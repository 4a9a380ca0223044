package domain

// UserRole distinguishes the two marketplace sides plus platform admins.
type UserRole string

const (
	RoleCompany UserRole = "COMPANY"
	RoleWorker  UserRole = "WORKER"
	RoleAdmin   UserRole = "ADMIN"
)

// User is the marketplace user directory entry. Authentication is a thin
// surface here; the ledger only needs identity and role.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	FCMToken     string   `json:"-"` // push notification target, optional
	AuditFields
}
