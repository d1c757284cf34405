package iam

import (
	"github.com/alerthub/core/query"
)

// Field names of the owner sub-document attached to access-filtered
// resources.
const (
	userFieldPath  = "user"
	userRolesField = "user.backend_roles"
)

// FilterByBackendRoles augments a search query with a backend-role
// visibility constraint derived from the user. The constraint is added
// as a filter clause to the returned boolean query. A query that isn't
// a boolean query is wrapped into one instead of being modified.
//
// Three cases are distinguished:
//
//   - No authenticated user: only documents without an owner pass. These
//     are resources created before security was enabled.
//   - User without backend roles: only documents that have an owner who
//     also had no backend roles at creation time pass.
//   - User with backend roles: only documents whose owner shares at
//     least one backend role pass.
func FilterByBackendRoles(user *User, q query.Query) query.Query {
	filter := query.Wrap(q)

	if !user.IsAuthenticated() {
		return filter.Filter(
			query.NewBool().MustNot(
				query.NewNested(userFieldPath, query.NewExists(userFieldPath)),
			),
		)
	}

	if !user.HasBackendRoles() {
		return filter.Filter(
			query.NewBool().
				MustNot(query.NewNested(userFieldPath, query.NewExists(userRolesField))).
				Must(query.NewNested(userFieldPath, query.NewExists(userFieldPath))),
		)
	}

	return filter.Filter(
		query.NewNested(userFieldPath, query.NewTerms(userRolesField, user.BackendRoles...)),
	)
}
