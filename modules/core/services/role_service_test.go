package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/pkg/authz"
)

func TestRoleService_ToggleModule(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	r, all, err := f.roleSvc.ToggleModule(ctx, "admin", "Documents")
	require.NoError(t, err)
	assert.Equal(t, []string{"orgchart", "documents"}, r.Modules)
	assert.Equal(t, r, all[0])

	r, _, err = f.roleSvc.ToggleModule(ctx, "admin", "orgchart")
	require.NoError(t, err)
	assert.Equal(t, []string{"documents"}, r.Modules)

	_, _, err = f.roleSvc.ToggleModule(ctx, "admin", "payroll")
	require.ErrorIs(t, err, ErrUnknownModule)
}

func TestRoleService_CreateRejectsUnknownModules(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, _, err := f.roleSvc.Create(context.Background(), &role.CreateDTO{Name: "Auditor", Modules: []string{"records", "payroll"}})
	require.ErrorIs(t, err, ErrUnknownModule)

	created, _, err := f.roleSvc.Create(context.Background(), &role.CreateDTO{
		Name:     "Auditor",
		Modules:  []string{" Records ", "records", "kpis"},
		ReadOnly: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"records", "kpis"}, created.Modules)
}

func TestDeleteRejectsReferencedEntities(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, err := f.roleSvc.Delete(ctx, "admin")
	require.ErrorIs(t, err, ErrInUse)
	_, err = f.departmentSvc.Delete(ctx, "qa")
	require.ErrorIs(t, err, ErrInUse)
	_, err = f.locationSvc.Delete(ctx, "plant-1")
	require.ErrorIs(t, err, ErrInUse)

	_, err = f.userSvc.Delete(ctx, "1")
	require.NoError(t, err)
	all, err := f.roleSvc.Delete(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = f.departmentSvc.Delete(ctx, "qa")
	require.NoError(t, err)
	_, err = f.locationSvc.Delete(ctx, "plant-1")
	require.NoError(t, err)
}

func TestDepartmentService_ChecksLocation(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.departmentSvc.Create(ctx, &department.CreateDTO{Name: "Ops", LocationID: "nowhere"})
	require.ErrorIs(t, err, ErrUnknownReference)

	d, all, err := f.departmentSvc.Update(ctx, "qa", &department.UpdateDTO{Name: "Quality Assurance"})
	require.NoError(t, err)
	assert.Equal(t, "Quality Assurance", d.Name)
	assert.Empty(t, d.LocationID)
	assert.Len(t, all, 1)
}

func TestLocationService_CRUD(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	created, all, err := f.locationSvc.Create(ctx, &location.CreateDTO{ID: "plant-2", Name: "Plant 2"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	updated, _, err := f.locationSvc.Update(ctx, created.ID, &location.UpdateDTO{Name: "Plant Two", Address: "Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Main St", updated.Address)
	all, err = f.locationSvc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDefaultAuthorizeCore(t *testing.T) {
	t.Parallel()
	require.NoError(t, defaultAuthorizeCore(context.Background(), nil, CoreAuthzObject, "create"))

	svc, err := authz.NewService(authz.ModeEnforce, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Sync(context.Background(),
		[]authz.RoleGrant{{RoleID: "viewer", Modules: []string{CoreAuthzObject}, ReadOnly: true}},
		[]authz.Membership{{UserID: "u1", RoleID: "viewer"}},
	))
	ctx := authz.WithActor(context.Background(), "u1")
	require.NoError(t, defaultAuthorizeCore(ctx, svc, CoreAuthzObject, "list"))
	require.ErrorIs(t, defaultAuthorizeCore(ctx, svc, CoreAuthzObject, "delete"), authz.ErrForbidden)
}
