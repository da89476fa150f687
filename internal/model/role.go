package model

// RoleName is the closed set of role identifiers.
type RoleName string

const (
	RoleAdmin     RoleName = "admin"
	RoleModerator RoleName = "moderator"
	RoleSupport   RoleName = "support"
	RoleUser      RoleName = "user"
	RoleGuest     RoleName = "guest"
)

// Fixed role primary keys, matching the seeded rows.
const (
	RoleIDAdmin     uint = 1
	RoleIDModerator uint = 2
	RoleIDSupport   uint = 3
	RoleIDUser      uint = 4
	RoleIDGuest     uint = 5
)

// Role is the persistence record for an access-level tag.
type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;size:50;not null"`
}

// TableName pins the table name regardless of GORM pluralization settings.
func (Role) TableName() string {
	return "roles"
}

// Valid reports whether the name belongs to the closed enumeration.
func (n RoleName) Valid() bool {
	switch n {
	case RoleAdmin, RoleModerator, RoleSupport, RoleUser, RoleGuest:
		return true
	}
	return false
}

// DefaultRoles returns the full enumeration with its fixed IDs, in seed order.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleIDAdmin, Name: RoleAdmin},
		{ID: RoleIDModerator, Name: RoleModerator},
		{ID: RoleIDSupport, Name: RoleSupport},
		{ID: RoleIDUser, Name: RoleUser},
		{ID: RoleIDGuest, Name: RoleGuest},
	}
}
