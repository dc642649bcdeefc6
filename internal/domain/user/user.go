package user

import "time"

// Marketplace roles. A user's role is fixed at signup: clients post jobs,
// workers apply to them.
const (
	RoleClient = "client"
	RoleWorker = "worker"
)

// User is a marketplace account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Country      string    `json:"country,omitempty"`
	City         string    `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether r is one of the marketplace roles.
func ValidRole(r string) bool {
	return r == RoleClient || r == RoleWorker
}

// Actor is the identity attached to an incoming request by the auth
// middleware. It carries just enough for authorization decisions.
func Actor(id, role string) User {
	return User{ID: id, Role: role}
}
