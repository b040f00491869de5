package model

// Role is a participant's group-scoped role.
type Role string

const (
	RoleLeader  Role = "LEADER"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
	RoleMentor  Role = "MENTOR"
)

// Rank orders roles for authorization. MEMBER and MENTOR share the lowest rank.
func (r Role) Rank() int {
	switch r {
	case RoleLeader:
		return 3
	case RoleManager:
		return 2
	case RoleMember, RoleMentor:
		return 1
	default:
		return 0
	}
}

func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// IsAtLeast reports whether r meets the minimum role.
func (r Role) IsAtLeast(min Role) bool {
	return r.IsValid() && r.Rank() >= min.Rank()
}

// Toggled returns the role produced by a role change: MANAGER becomes
// MEMBER, any other non-leader role becomes MANAGER.
func (r Role) Toggled() Role {
	if r == RoleManager {
		return RoleMember
	}
	return RoleManager
}
