package services

import (
	"context"

	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/types"
)

// CoreAuthzObject is the module guarding users, roles, departments and locations.
const CoreAuthzObject = types.ModuleSystemConfig

// Authorizer decides whether the actor in ctx may act on a module.
type Authorizer interface {
	AuthorizeActor(ctx context.Context, module, action string) error
}

var authorizeCoreFn = defaultAuthorizeCore

func authorizeCore(ctx context.Context, az Authorizer, object, action string) error {
	return authorizeCoreFn(ctx, az, object, action)
}

func defaultAuthorizeCore(ctx context.Context, az Authorizer, object, action string) error {
	if az == nil {
		return nil
	}
	return az.AuthorizeActor(ctx, authz.ObjectName(object), authz.NormalizeAction(action))
}
