package model

// Role is the authorization role carried in every token.
type Role string

const (
	RoleTeacher   Role = "guru"
	RolePrincipal Role = "kepsek"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RolePrincipal, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to a staff account (teacher or principal).
func (r Role) IsStaff() bool {
	return r == RoleTeacher || r == RolePrincipal
}

// Identity is the authenticated caller. Staff and admin logins both resolve to it,
// so authorization never needs to know which table the account came from.
type Identity struct {
	SubjectID   int    `json:"id"`
	Role        Role   `json:"role"`
	DisplayName string `json:"nama"`
}
