package persistence

import (
	"context"

	"github.com/simple-lms/console/modules/core/domain/entities/department"
	"github.com/simple-lms/console/modules/core/domain/entities/location"
	"github.com/simple-lms/console/modules/core/domain/entities/role"
	"github.com/simple-lms/console/modules/core/domain/entities/user"
	"github.com/simple-lms/console/pkg/repo"
)

const (
	UsersCollection       = "users"
	RolesCollection       = "roles"
	DepartmentsCollection = "departments"
	LocationsCollection   = "locations"
)

// Repositories holds the core entity stores.
type Repositories struct {
	Users       user.Repository
	Roles       role.Repository
	Departments department.Repository
	Locations   location.Repository
}

// Open loads every core collection through p. A nil persister keeps them in memory.
func Open(ctx context.Context, p repo.Persister) (*Repositories, error) {
	users, err := repo.OpenCollection[user.User](ctx, UsersCollection, p)
	if err != nil {
		return nil, err
	}
	roles, err := repo.OpenCollection[role.Role](ctx, RolesCollection, p)
	if err != nil {
		return nil, err
	}
	departments, err := repo.OpenCollection[department.Department](ctx, DepartmentsCollection, p)
	if err != nil {
		return nil, err
	}
	locations, err := repo.OpenCollection[location.Location](ctx, LocationsCollection, p)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Users:       users,
		Roles:       roles,
		Departments: departments,
		Locations:   locations,
	}, nil
}
