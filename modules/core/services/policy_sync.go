package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/eventbus"
)

// PolicyStore receives the role grants and memberships derived from core data.
type PolicyStore interface {
	Sync(ctx context.Context, grants []authz.RoleGrant, members []authz.Membership) error
}

// PolicySync keeps authorization policies in step with roles and users.
type PolicySync struct {
	users  user.Repository
	roles  role.Repository
	store  PolicyStore
	logger *logrus.Entry
}

func NewPolicySync(users user.Repository, roles role.Repository, store PolicyStore, logger *logrus.Logger) *PolicySync {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PolicySync{
		users:  users,
		roles:  roles,
		store:  store,
		logger: logger.WithField("component", "policy-sync"),
	}
}

// Sync rebuilds every policy from the current roles and users. Without a
// store it does nothing.
func (p *PolicySync) Sync(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	roles, err := p.roles.List(ctx)
	if err != nil {
		return err
	}
	users, err := p.users.List(ctx)
	if err != nil {
		return err
	}
	grants := make([]authz.RoleGrant, 0, len(roles))
	for _, r := range roles {
		grants = append(grants, authz.RoleGrant{RoleID: r.ID, Modules: r.Modules, ReadOnly: r.ReadOnly})
	}
	members := make([]authz.Membership, 0, len(users))
	for _, u := range users {
		if u.RoleID == "" {
			continue
		}
		members = append(members, authz.Membership{UserID: u.ID, RoleID: u.RoleID})
	}
	return p.store.Sync(ctx, grants, members)
}

func (p *PolicySync) resync() {
	if err := p.Sync(context.Background()); err != nil {
		p.logger.WithError(err).Error("failed to sync authz policies")
	}
}

// Subscribe re-syncs on every user or role change.
func (p *PolicySync) Subscribe(bus eventbus.EventBus) {
	bus.Subscribe(func(*user.CreatedEvent) { p.resync() })
	bus.Subscribe(func(*user.UpdatedEvent) { p.resync() })
	bus.Subscribe(func(*user.DeletedEvent) { p.resync() })
	bus.Subscribe(func(*role.CreatedEvent) { p.resync() })
	bus.Subscribe(func(*role.UpdatedEvent) { p.resync() })
	bus.Subscribe(func(*role.DeletedEvent) { p.resync() })
}
