// internal/models/user.go
package models

// User is an account row. Password holds plaintext only on input; the store
// persists a bcrypt hash and clears the field on every return path.
type User struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password,omitempty"`
	Roles    []RoleAssignment `json:"roles,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// UserSummary is one row of the paginated user listing; Roles is the
// comma-joined set of the user's role names.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles string `json:"roles"`
}
