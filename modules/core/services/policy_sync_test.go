package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/eventbus"
)

type recordingStore struct {
	grants  []authz.RoleGrant
	members []authz.Membership
	calls   int
}

func (r *recordingStore) Sync(_ context.Context, grants []authz.RoleGrant, members []authz.Membership) error {
	r.grants, r.members = grants, members
	r.calls++
	return nil
}

func TestPolicySync_Sync(t *testing.T) {
	t.Parallel()
	f := newFixture()
	store := &recordingStore{}
	ps := NewPolicySync(f.users, f.roles, store, nil)

	require.NoError(t, ps.Sync(context.Background()))
	require.Len(t, store.grants, 1)
	assert.Equal(t, authz.RoleGrant{RoleID: "admin", Modules: []string{"orgchart"}}, store.grants[0])
	assert.Equal(t, []authz.Membership{{UserID: "1", RoleID: "admin"}}, store.members)
}

func TestPolicySync_ResyncsOnRoleChange(t *testing.T) {
	t.Parallel()
	f := newFixture()
	store := &recordingStore{}
	bus := eventbus.NewEventPublisher(nil)
	NewPolicySync(f.users, f.roles, store, nil).Subscribe(bus)

	svc := NewRoleService(f.roles, bus, nil)
	_, _, err := svc.ToggleModule(context.Background(), "admin", "records")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, []string{"orgchart", "records"}, store.grants[0].Modules)

	bus.Publish(&role.DeletedEvent{})
	assert.Equal(t, 2, store.calls)
}
