package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/simple-lms/console/pkg/composables"
	"github.com/simple-lms/console/pkg/intl"
	"github.com/simple-lms/console/pkg/serrors"
	"github.com/simple-lms/console/pkg/validation"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string                   `json:"message"`
	Code    string                   `json:"code"`
	Meta    map[string]string        `json:"meta,omitempty"`
	Fields  serrors.ValidationErrors `json:"fields,omitempty"`
}

var (
	statusMu     sync.RWMutex
	statusByCode = map[string]int{
		"REPO_NOT_FOUND":    http.StatusNotFound,
		"REPO_DUPLICATE_ID": http.StatusConflict,
		"REPO_EMPTY_ID":     http.StatusBadRequest,
		"AUTHZ_FORBIDDEN":   http.StatusForbidden,
		"VALIDATION_FAILED": http.StatusUnprocessableEntity,
		"INVALID_REQUEST":   http.StatusBadRequest,
	}
)

// RegisterStatus maps an error code to the HTTP status it is rendered with.
func RegisterStatus(code string, status int) {
	statusMu.Lock()
	defer statusMu.Unlock()
	statusByCode[code] = status
}

// StatusFor returns the status registered for err's code, 500 otherwise.
func StatusFor(err error) int {
	code := serrors.CodeOf(err)
	statusMu.RLock()
	defer statusMu.RUnlock()
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteServiceError renders err with a status derived from its code. Unknown
// errors are logged and hidden behind a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	meta := map[string]string{"path": r.URL.Path}
	if id, ok := composables.UseRequestID(ctx); ok {
		meta["request_id"] = id
	}

	status := StatusFor(err)
	env := &ErrorEnvelope{Meta: meta}
	var be *serrors.BaseError
	if status == http.StatusInternalServerError || !errors.As(err, &be) {
		composables.UseLogger(ctx).WithError(err).Error("request failed")
		env.Code = "INTERNAL_SERVER_ERROR"
		env.Message = intl.T(ctx, "Errors.Internal", nil, "internal server error")
		status = http.StatusInternalServerError
	} else {
		env.Code = be.Code
		env.Message = intl.T(ctx, be.LocaleKey, be.TemplateData, err.Error())
		if fields, ok := validation.FieldsOf(err); ok {
			env.Fields = fields
		}
	}
	_ = WriteJSON(w, status, env)
}

// BadRequest renders a malformed-input error.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteServiceError(w, r, serrors.Wrapf(ErrInvalidRequest, "%s", message))
}

var ErrInvalidRequest = serrors.NewError("INVALID_REQUEST", "invalid request", "Errors.InvalidRequest")
