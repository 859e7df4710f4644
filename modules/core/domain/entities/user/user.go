package user

import (
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type User struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	JobTitle     string `json:"jobTitle,omitempty" yaml:"jobTitle"`
	RoleID       string `json:"roleId,omitempty" yaml:"roleId"`
	DepartmentID string `json:"departmentId,omitempty" yaml:"departmentId"`
	LocationID   string `json:"locationId,omitempty" yaml:"locationId"`
	ManagerID    string `json:"managerId,omitempty" yaml:"managerId"`
}

func (u User) EntityID() string {
	return u.ID
}

type Repository = repo.Repository[User]

type CreateDTO struct {
	ID           string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	JobTitle     string `json:"jobTitle,omitempty" validate:"max=120"`
	RoleID       string `json:"roleId,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.RoleID = strings.TrimSpace(d.RoleID)
	d.DepartmentID = strings.TrimSpace(d.DepartmentID)
	d.LocationID = strings.TrimSpace(d.LocationID)
	d.ManagerID = strings.TrimSpace(d.ManagerID)
}

func (d *CreateDTO) ToEntity() User {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		JobTitle:     d.JobTitle,
		RoleID:       d.RoleID,
		DepartmentID: d.DepartmentID,
		LocationID:   d.LocationID,
		ManagerID:    d.ManagerID,
	}
}

type UpdateDTO struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,email"`
	JobTitle     string `json:"jobTitle,omitempty" validate:"max=120"`
	RoleID       string `json:"roleId,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.RoleID = strings.TrimSpace(d.RoleID)
	d.DepartmentID = strings.TrimSpace(d.DepartmentID)
	d.LocationID = strings.TrimSpace(d.LocationID)
	d.ManagerID = strings.TrimSpace(d.ManagerID)
}

// UpdateDTOFrom returns the DTO that would leave u unchanged.
func UpdateDTOFrom(u User) UpdateDTO {
	return UpdateDTO{
		Name:         u.Name,
		Email:        u.Email,
		JobTitle:     u.JobTitle,
		RoleID:       u.RoleID,
		DepartmentID: u.DepartmentID,
		LocationID:   u.LocationID,
		ManagerID:    u.ManagerID,
	}
}

func (d *UpdateDTO) Apply(u User) User {
	u.Name = d.Name
	u.Email = d.Email
	u.JobTitle = d.JobTitle
	u.RoleID = d.RoleID
	u.DepartmentID = d.DepartmentID
	u.LocationID = d.LocationID
	u.ManagerID = d.ManagerID
	return u
}

type CreatedEvent struct {
	Result User
}

type UpdatedEvent struct {
	Data   User
	Result User
}

type DeletedEvent struct {
	Result User
}
