package domain

// Profile is the authenticated admin identity returned by the /me
// endpoint.
type Profile struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// RoleGlobalAdmin gates the admin command surface.
const RoleGlobalAdmin = "global-admin"

// HasRole reports whether the profile carries the role.
func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the profile carries at least one of the roles.
// An empty requirement list is satisfied by any profile.
func (p *Profile) HasAny(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}
