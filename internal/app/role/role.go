package role

// Role is the organisation role stored on a user.
type Role string

const (
	Guest      Role = "GUEST"
	Member     Role = "MEMBER"
	Leadership Role = "LEADERSHIP"
	Admin      Role = "ADMIN"
	AppAdmin   Role = "APP_ADMIN"
)

// Tier orders roles by privilege. Unknown roles rank below Guest.
func (r Role) Tier() int {
	switch r {
	case Guest:
		return 0
	case Member:
		return 1
	case Leadership:
		return 2
	case Admin:
		return 3
	case AppAdmin:
		return 4
	default:
		return -1
	}
}

func (r Role) Valid() bool {
	return r.Tier() >= 0
}

// HasPrivilege reports whether r is at least as privileged as required.
func HasPrivilege(r Role, required Role) bool {
	return r.Valid() && r.Tier() >= required.Tier()
}
