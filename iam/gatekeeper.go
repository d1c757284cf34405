package iam

import (
	"fmt"
	"net/http"

	"github.com/alerthub/core/log"
)

// AuthorizationError carries a denial reason together with the HTTP
// status a transport layer should answer with.
type AuthorizationError struct {
	Status  int
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewForbiddenError(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{
		Status:  http.StatusForbidden,
		Message: fmt.Sprintf(format, args...),
	}
}

// Gatekeeper decides whether a principal may create or access
// role-filtered resources. The checks report denials through a
// caller-supplied failure callback and additionally return a boolean so
// the caller can short-circuit its response path.
//
// This is a coarse placeholder until resources carry their own access
// policies.
type Gatekeeper interface {
	// FilterEnabled returns whether filtering by backend roles is
	// switched on.
	FilterEnabled() bool

	// CheckCreate returns whether the user is allowed to create a
	// role-filtered resource.
	CheckCreate(user *User, onFailure func(error)) bool

	// CheckAccess returns whether the requester shares a backend role
	// with the owner of the resource identified by kind and id.
	CheckAccess(requester, owner *User, kind, id string, onFailure func(error)) bool
}

type Config struct {
	// FilterByBackendRoles is the cluster-wide flag restricting
	// resource visibility to principals with matching backend roles.
	FilterByBackendRoles bool

	Logger log.Logger
}

type gatekeeper struct {
	filterEnabled bool

	logger log.Logger
}

func New(config Config) Gatekeeper {
	g := &gatekeeper{
		filterEnabled: config.FilterByBackendRoles,
		logger:        config.Logger,
	}

	if g.logger == nil {
		g.logger = log.New("")
	}

	g.logger = g.logger.WithComponent("iam")

	return g
}

func (g *gatekeeper) FilterEnabled() bool {
	return g.filterEnabled
}

func (g *gatekeeper) CheckCreate(user *User, onFailure func(error)) bool {
	if !g.filterEnabled {
		return true
	}

	if !user.IsAuthenticated() {
		g.deny(onFailure, NewForbiddenError("filtering by backend roles requires an authenticated user, enable security or disable the filter"))
		return false
	}

	if !user.HasBackendRoles() {
		g.deny(onFailure, NewForbiddenError("user '%s' has no backend roles configured, an administrator has to assign them", user.Name))
		return false
	}

	return true
}

func (g *gatekeeper) CheckAccess(requester, owner *User, kind, id string, onFailure func(error)) bool {
	if !g.filterEnabled {
		return true
	}

	if !requester.HasBackendRoles() || !owner.HasBackendRoles() || !requester.SharesBackendRole(owner) {
		g.deny(onFailure, NewForbiddenError("no permission to access %s with id %s", kind, id))
		return false
	}

	return true
}

func (g *gatekeeper) deny(onFailure func(error), err *AuthorizationError) {
	g.logger.WithField("status", err.Status).Debug("denied: %s", err.Message)

	if onFailure != nil {
		onFailure(err)
	}
}
