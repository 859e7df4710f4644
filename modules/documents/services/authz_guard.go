package services

import (
	"context"

	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/types"
)

const (
	DocumentsAuthzObject = types.ModuleDocuments
	RecordsAuthzObject   = types.ModuleRecords
)

var authorizeDocumentsFn = defaultAuthorizeDocuments

func authorizeDocuments(ctx context.Context, az coreservices.Authorizer, object, action string) error {
	return authorizeDocumentsFn(ctx, az, object, action)
}

func defaultAuthorizeDocuments(ctx context.Context, az coreservices.Authorizer, object, action string) error {
	if az == nil {
		return nil
	}
	return az.AuthorizeActor(ctx, authz.ObjectName(object), authz.NormalizeAction(action))
}
