package authz

import (
	"context"
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == r.obj || p.obj == "*") && (p.act == r.act || p.act == "*")
`

// RoleGrant lists the modules a role may open. Edit is granted unless ReadOnly.
type RoleGrant struct {
	RoleID   string
	Modules  []string
	ReadOnly bool
}

// Membership binds a user to a role.
type Membership struct {
	UserID string
	RoleID string
}

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	mode     Mode
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// NewService constructs a Service with an empty policy set.
func NewService(mode Mode, logger *logrus.Logger) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	enf, err := newEnforcer()
	if err != nil {
		return nil, err
	}
	return &Service{
		mode:     mode,
		enforcer: enf,
		logger:   logger.WithField("component", "authz"),
	}, nil
}

func newEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, errors.Wrap(err, "authz: parse model")
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "authz: init enforcer")
	}
	return enf, nil
}

// Mode reports the enforcement mode.
func (s *Service) Mode() Mode {
	return s.mode
}

// Sync replaces every policy with the ones derived from grants and members.
func (s *Service) Sync(ctx context.Context, grants []RoleGrant, members []Membership) error {
	enf, err := newEnforcer()
	if err != nil {
		return err
	}

	policies := 0
	seen := make(map[[3]string]struct{})
	for _, g := range grants {
		sub := SubjectForRole(g.RoleID)
		for _, module := range g.Modules {
			actions := []string{ActionView}
			if !g.ReadOnly {
				actions = append(actions, ActionEdit)
			}
			for _, act := range actions {
				key := [3]string{sub, ObjectName(module), act}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				if _, err := enf.AddPolicy(key[0], key[1], key[2]); err != nil {
					return errors.Wrapf(err, "authz: add policy for %s", sub)
				}
				policies++
			}
		}
	}
	for _, m := range members {
		if m.RoleID == "" {
			continue
		}
		if _, err := enf.AddGroupingPolicy(SubjectForUser(m.UserID), SubjectForRole(m.RoleID)); err != nil {
			return errors.Wrapf(err, "authz: add grouping for %s", m.UserID)
		}
	}

	s.mu.Lock()
	s.enforcer = enf
	s.mu.Unlock()

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"policies": policies,
		"members":  len(members),
	}).Debug("authz policies synced")
	return nil
}

// Authorize returns an error if the request is denied under enforce mode.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	if s.mode == ModeDisabled {
		return nil
	}
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}
	fields := logrus.Fields{
		"subject": req.Subject,
		"object":  req.Object,
		"action":  req.Action,
		"mode":    s.mode,
	}
	if s.mode == ModeEnforce {
		s.logger.WithContext(ctx).WithFields(fields).Warn("authz denied request")
		return forbiddenError(req)
	}
	s.logger.WithContext(ctx).WithFields(fields).Warn("authz shadow deny")
	return nil
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	start := time.Now()
	s.mu.RLock()
	res, err := s.enforcer.Enforce(req.Subject, req.Object, req.Action)
	s.mu.RUnlock()
	if err != nil {
		return false, errors.Wrap(err, "authz: enforce failed")
	}
	recordDecision(s.mode, res, time.Since(start))
	return res, nil
}

// AuthorizeActor authorizes the actor stored in ctx. Calls without an actor are allowed.
func (s *Service) AuthorizeActor(ctx context.Context, module, action string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil
	}
	return s.Authorize(ctx, NewRequest(SubjectForUser(actor), module, action))
}

// Can reports whether the actor in ctx may perform action on module, ignoring the mode.
func (s *Service) Can(ctx context.Context, module, action string) bool {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return true
	}
	allowed, err := s.Check(ctx, NewRequest(SubjectForUser(actor), module, action))
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("authz check failed")
		return false
	}
	return allowed
}
