package domain

// Role values the backend is known to issue. Role is free text; these are
// compared case-sensitively and nothing rejects other values.
const (
	RoleAdmin    = "admin"
	RoleAgent    = "agent"
	RoleCustomer = "customer"
)

// User is an authenticated principal as returned by /auth/login and /auth/me.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// BasicUser is the user shape listed by the admin and agent endpoints.
type BasicUser = User

// HasRole reports whether u is non-nil and its role exactly matches one of roles.
func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
