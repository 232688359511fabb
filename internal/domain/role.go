package domain

// Role enumerates the portal roles issued by the clinic backend.
type Role string

const (
	RoleCliente    Role = "cliente"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole maps a raw role claim onto the closed role set. Tokens minted by
// the backend may carry values outside this set; callers decide whether an
// unrecognized role falls through or is treated as unauthenticated.
func ParseRole(raw string) (Role, bool) {
	switch role := Role(raw); role {
	case RoleCliente, RoleDoctor, RoleAdmin, RoleSuperAdmin:
		return role, true
	default:
		return "", false
	}
}

// HomePath returns the landing path owned by the role.
func (r Role) HomePath() string {
	switch r {
	case RoleSuperAdmin:
		return "/superAdmin"
	case RoleAdmin:
		return "/admin"
	case RoleDoctor:
		return "/doctor"
	case RoleCliente:
		return "/cliente"
	default:
		return "/"
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
