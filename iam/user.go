package iam

import (
	"github.com/alerthub/core/slices"
)

// User is the identity a request was authenticated as. A nil user or a
// user with an empty name means the request came in without security
// enabled.
type User struct {
	Name         string   `json:"name"`
	BackendRoles []string `json:"backend_roles"`
	Roles        []string `json:"roles"`
}

// IsAuthenticated returns whether the user represents an authenticated
// principal.
func (u *User) IsAuthenticated() bool {
	return u != nil && len(u.Name) != 0
}

// HasBackendRoles returns whether the user carries at least one
// backend role.
func (u *User) HasBackendRoles() bool {
	return u != nil && len(u.BackendRoles) != 0
}

// SharesBackendRole returns whether the user and the other user have at
// least one backend role in common. A nil user on either side never
// shares a role.
func (u *User) SharesBackendRole(other *User) bool {
	if u == nil || other == nil {
		return false
	}

	return len(slices.Intersect(u.BackendRoles, other.BackendRoles)) != 0
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	user := *u
	user.BackendRoles = slices.Copy(u.BackendRoles)
	user.Roles = slices.Copy(u.Roles)

	return &user
}
