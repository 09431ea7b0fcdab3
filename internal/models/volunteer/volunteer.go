package volunteer

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Role string
type Status string

const RoleVolunteer Role = "Volunteer"
const RoleDomainHead Role = "Domain Head"
const RoleSuperAdmin Role = "Super Admin"

const StatusActive Status = "active"

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleDomainHead, RoleSuperAdmin:
		return true
	}
	return false
}

// IsElevated reports whether the role may use the admin endpoints.
func (r Role) IsElevated() bool {
	return r == RoleDomainHead || r == RoleSuperAdmin
}

type Volunteer struct {
	UUID         uuid.UUID  `json:"id" db:"uuid"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	CNIC         string     `json:"cnic" db:"cnic"`
	City         string     `json:"city" db:"city"`
	Area         string     `json:"area" db:"area"`
	University   string     `json:"university" db:"university"`
	Skills       string     `json:"skills" db:"skills"`
	Domains      []string   `json:"domains" db:"domains"`
	Role         Role       `json:"role" db:"role"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Status       Status     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at,omitempty"`
}

func (v *Volunteer) HasDomain(domain string) bool {
	return slices.Contains(v.Domains, domain)
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UUID    uuid.UUID
	Name    string
	Role    Role
	Domains []string
}

func (v *Volunteer) Caller() Caller {
	return Caller{
		UUID:    v.UUID,
		Name:    v.Name,
		Role:    v.Role,
		Domains: slices.Clone(v.Domains),
	}
}
