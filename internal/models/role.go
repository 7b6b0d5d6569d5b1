// internal/models/role.go
package models

// Role governs a user's authorization scope.
type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDiner, RoleFranchisee, RoleAdmin:
		return true
	}
	return false
}

// RoleAssignment binds a user to a role. ObjectID is meaningful only for
// franchisees, where it references the franchise. On input, Object may carry
// the franchise name to be resolved before insert.
type RoleAssignment struct {
	UserID   int64  `json:"userId,omitempty"`
	Role     Role   `json:"role"`
	Object   string `json:"object,omitempty"`
	ObjectID int64  `json:"objectId,omitempty"`
}
