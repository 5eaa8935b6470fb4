package model

import "fmt"

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleLecturer   Role = "lecturer"
	RoleEmployee   Role = "employee"
	RoleStudent    Role = "student"
)

// roleRank is the single ordinal table for the role hierarchy. Elevation
// checks compare ranks through AtLeast/Outranks, never raw numbers.
var roleRank = map[Role]int{
	RoleSuperadmin: 6,
	RoleAdmin:      5,
	RoleManager:    4,
	RoleLecturer:   3,
	RoleEmployee:   2,
	RoleStudent:    1,
}

func ParseRole(value string) (Role, error) {
	role := Role(value)
	if _, ok := roleRank[role]; !ok {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

func (r Role) Rank() int {
	return roleRank[r]
}

func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

func (r Role) Outranks(other Role) bool {
	return roleRank[r] > roleRank[other]
}

// Elevated roles see sessions institution-wide; everyone else is limited to
// sessions they created.
func (r Role) Elevated() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}
