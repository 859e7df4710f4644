package authz

import (
	"github.com/simple-lms/console/pkg/serrors"
)

const errorLocaleKey = "Authorization.PermissionDenied"

var ErrForbidden = serrors.NewError("AUTHZ_FORBIDDEN", "permission denied", errorLocaleKey)

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) *serrors.BaseError {
	return ErrForbidden.WithTemplateData(map[string]string{
		"object":  req.Object,
		"action":  req.Action,
		"subject": req.Subject,
	})
}
