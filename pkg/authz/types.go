package authz

import (
	"strings"
)

const (
	userPrefix            = "user"
	rolePrefix            = "role"
	subjectSeparator      = ":"
	defaultActionWildcard = "*"
)

const (
	ActionView = "view"
	ActionEdit = "edit"
)

// Request encapsulates all parameters required to evaluate a Casbin rule.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest constructs a Request with normalized parts.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  ObjectName(object),
		Action:  NormalizeAction(action),
	}
}

// SubjectForUser returns user:{id}.
func SubjectForUser(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "anonymous"
	}
	return userPrefix + subjectSeparator + userID
}

// SubjectForRole returns role:{id}.
func SubjectForRole(roleID string) string {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		roleID = "unnamed"
	}
	if strings.HasPrefix(roleID, rolePrefix+subjectSeparator) {
		return roleID
	}
	return rolePrefix + subjectSeparator + strings.ToLower(roleID)
}

// ObjectName returns the canonical, lowercased module key.
func ObjectName(module string) string {
	module = strings.ToLower(strings.TrimSpace(module))
	if module == "" {
		return "global"
	}
	return module
}

// NormalizeAction maps UI verbs onto view/edit; unknown verbs pass through lowercased.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	switch action {
	case "":
		return defaultActionWildcard
	case "list", "read", "view", "export":
		return ActionView
	case "create", "update", "delete", "edit", "toggle":
		return ActionEdit
	default:
		return action
	}
}
