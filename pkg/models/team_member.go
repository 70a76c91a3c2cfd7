package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a team member's access tier
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleLevels = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// AtLeast reports whether the role grants at minimum the given tier.
// Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	return roleLevels[r] >= roleLevels[min] && roleLevels[r] > 0
}

// TeamMember is a user of the tenant's workspace. Rows are provisioned on
// first authenticated request; UserID is the identity provider subject.
type TeamMember struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (TeamMember) TableName() string {
	return "team_members"
}
