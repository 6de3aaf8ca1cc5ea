package gatekeeper

// Authority tags are the capability grants carried in token claims
const (
	AuthorityUserRead   = "user:read"
	AuthorityUserCreate = "user:create"
	AuthorityUserUpdate = "user:update"
	AuthorityUserDelete = "user:delete"
)

// Role is the account's role, mapped to a fixed authority list
type Role string

const (
	// RoleUser can read
	RoleUser Role = "ROLE_USER"
	// RoleHR can read and update
	RoleHR Role = "ROLE_HR"
	// RoleManager can read and update
	RoleManager Role = "ROLE_MANAGER"
	// RoleAdmin can read, create, and update
	RoleAdmin Role = "ROLE_ADMIN"
	// RoleSuperAdmin can read, create, update, and delete
	RoleSuperAdmin Role = "ROLE_SUPER_ADMIN"
)

var roleAuthorities = map[Role][]string{
	RoleUser:       {AuthorityUserRead},
	RoleHR:         {AuthorityUserRead, AuthorityUserUpdate},
	RoleManager:    {AuthorityUserRead, AuthorityUserUpdate},
	RoleAdmin:      {AuthorityUserRead, AuthorityUserCreate, AuthorityUserUpdate},
	RoleSuperAdmin: {AuthorityUserRead, AuthorityUserCreate, AuthorityUserUpdate, AuthorityUserDelete},
}

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	_, ok := roleAuthorities[r]
	return ok
}

// Authorities returns a copy of the permission tags granted to this role.
// Unknown roles grant nothing.
func (r Role) Authorities() []string {
	tags, ok := roleAuthorities[r]
	if !ok {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// HasAuthority checks if this role carries a permission tag
func (r Role) HasAuthority(tag string) bool {
	for _, granted := range roleAuthorities[r] {
		if granted == tag {
			return true
		}
	}
	return false
}

// GetAllRoles returns all predefined roles in ascending privilege order
func GetAllRoles() []Role {
	return []Role{
		RoleUser,
		RoleHR,
		RoleManager,
		RoleAdmin,
		RoleSuperAdmin,
	}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
