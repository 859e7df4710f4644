package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/pkg/repo"
	"github.com/simple-lms/console/pkg/validation"
)

func TestUserService_AuthorizeCreateDenied(t *testing.T) {
	t.Cleanup(func() { authorizeCoreFn = defaultAuthorizeCore })
	f := newFixture()

	authorizeCoreFn = func(ctx context.Context, az Authorizer, object, action string) error {
		require.Equal(t, CoreAuthzObject, object)
		require.Equal(t, "create", action)
		return errors.New("forbidden")
	}

	_, _, err := f.userSvc.Create(context.Background(), &user.CreateDTO{Name: "Dee", Email: "dee@example.com"})
	require.Error(t, err)
	assert.Equal(t, 3, f.users.Len(), "repository should not change when authorization fails")
	assert.Nil(t, f.publisher.last())
}

func TestUserService_CreateReturnsCollection(t *testing.T) {
	t.Parallel()
	f := newFixture()

	created, all, err := f.userSvc.Create(context.Background(), &user.CreateDTO{
		Name:      "  Dee ",
		Email:     "DEE@example.com",
		ManagerID: "1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dee", created.Name)
	assert.Equal(t, "dee@example.com", created.Email)
	require.Len(t, all, 4)
	assert.Equal(t, created, all[3])
	assert.IsType(t, &user.CreatedEvent{}, f.publisher.last())
}

func TestUserService_CreateValidates(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, _, err := f.userSvc.Create(context.Background(), &user.CreateDTO{Name: "", Email: "not-an-email"})
	require.ErrorIs(t, err, validation.ErrInvalid)
	fields, ok := validation.FieldsOf(err)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

func TestUserService_RejectsUnknownReferences(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	for _, dto := range []user.CreateDTO{
		{Name: "X", Email: "x@example.com", RoleID: "ghost"},
		{Name: "X", Email: "x@example.com", DepartmentID: "ghost"},
		{Name: "X", Email: "x@example.com", LocationID: "ghost"},
		{Name: "X", Email: "x@example.com", ManagerID: "ghost"},
	} {
		_, _, err := f.userSvc.Create(ctx, &dto)
		require.ErrorIs(t, err, ErrUnknownReference)
	}
}

func TestUserService_UpdateRejectsManagerCycle(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	dto := user.UpdateDTOFrom(mustGet(t, f, "1"))
	dto.ManagerID = "3"
	_, _, err := f.userSvc.Update(ctx, "1", &dto)
	require.ErrorIs(t, err, hierarchy.ErrManagerCycle)

	dto.ManagerID = "1"
	_, _, err = f.userSvc.Update(ctx, "1", &dto)
	require.ErrorIs(t, err, hierarchy.ErrManagerCycle)

	assert.Empty(t, mustGet(t, f, "1").ManagerID)
}

func TestUserService_Patch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	updated, _, err := f.userSvc.Patch(ctx, "2", []byte(`{"jobTitle":"Inspector","managerId":null}`))
	require.NoError(t, err)
	assert.Equal(t, "Inspector", updated.JobTitle)
	assert.Empty(t, updated.ManagerID)
	assert.Equal(t, "Ben", updated.Name)

	ev, ok := f.publisher.last().(*user.UpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, "1", ev.Data.ManagerID)

	_, _, err = f.userSvc.Patch(ctx, "2", []byte(`{"email":""}`))
	require.ErrorIs(t, err, validation.ErrInvalid)

	_, _, err = f.userSvc.Patch(ctx, "2", []byte(`not json`))
	require.ErrorIs(t, err, ErrInvalidPatch)

	_, _, err = f.userSvc.Patch(ctx, "missing", []byte(`{}`))
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserService_DeletePublishes(t *testing.T) {
	t.Parallel()
	f := newFixture()

	all, err := f.userSvc.Delete(context.Background(), "3")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	ev, ok := f.publisher.last().(*user.DeletedEvent)
	require.True(t, ok)
	assert.Equal(t, "3", ev.Result.ID)
}

func TestUserService_SeedOnlyWhenEmpty(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ctx := context.Background()

	got, err := f.userSvc.Seed(ctx, []user.User{{ID: "9", Name: "Nine"}})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	empty := NewUserService(repo.NewCollection[user.User]("users"), UserLookups{}, f.publisher, nil)
	got, err = empty.Seed(ctx, []user.User{{ID: "9", Name: "Nine"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "9", got[0].ID)
}

func TestToPerson(t *testing.T) {
	t.Parallel()
	p := ToPerson(user.User{ID: "1", Name: "Ada", ManagerID: "", LocationID: "plant-1"}, "Admin")
	assert.Equal(t, "Admin", p.RoleLabel)
	assert.Nil(t, p.ManagerID)
	require.NotNil(t, p.LocationID)
	assert.Equal(t, "plant-1", *p.LocationID)

	p = ToPerson(user.User{ID: "2", JobTitle: "Inspector", ManagerID: "1"}, "Admin")
	assert.Equal(t, "Inspector", p.RoleLabel)
	require.NotNil(t, p.ManagerID)
	assert.Equal(t, "1", *p.ManagerID)
}

func mustGet(t *testing.T, f *fixture, id string) user.User {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

type slowUsers struct {
	user.Repository
}

func (s slowUsers) Update(ctx context.Context, item user.User) ([]user.User, error) {
	time.Sleep(20 * time.Millisecond)
	return s.Repository.Update(ctx, item)
}

func TestUserService_ConcurrentManagerUpdatesStayAcyclic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := repo.NewCollection[user.User]("users")
	_, err := users.Replace(ctx, []user.User{
		{ID: "a", Name: "Ann", Email: "ann@example.com"},
		{ID: "b", Name: "Bo", Email: "bo@example.com"},
	})
	require.NoError(t, err)
	svc := NewUserService(slowUsers{users}, UserLookups{}, &stubPublisher{}, nil)

	assign := map[string]string{"a": "b", "b": "a"}
	errs := make([]error, 0, 2)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for id, manager := range assign {
		wg.Add(1)
		go func(id, manager string) {
			defer wg.Done()
			current, err := users.GetByID(ctx, id)
			if err == nil {
				dto := user.UpdateDTOFrom(current)
				dto.ManagerID = manager
				_, _, err = svc.Update(ctx, id, &dto)
			}
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(id, manager)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, hierarchy.ErrManagerCycle)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	stored, err := users.List(ctx)
	require.NoError(t, err)
	people := make([]hierarchy.Person, 0, len(stored))
	for _, u := range stored {
		people = append(people, ToPerson(u, ""))
	}
	require.NoError(t, hierarchy.Validate(people))
}
