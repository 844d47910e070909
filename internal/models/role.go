package models

// Role is fixed per user at creation and drives every authorization decision.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// SelfService reports whether accounts of this role may be created through signup.
func (r Role) SelfService() bool {
	return r == RoleTenant || r == RoleLandlord
}

func (r Role) String() string { return string(r) }
