package department

import (
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type Department struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	LocationID string `json:"locationId,omitempty" yaml:"locationId"`
}

func (d Department) EntityID() string {
	return d.ID
}

type Repository = repo.Repository[Department]

type CreateDTO struct {
	ID         string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name       string `json:"name" validate:"required,max=120"`
	LocationID string `json:"locationId,omitempty"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.LocationID = strings.TrimSpace(d.LocationID)
}

func (d *CreateDTO) ToEntity() Department {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return Department{ID: id, Name: d.Name, LocationID: d.LocationID}
}

type UpdateDTO struct {
	Name       string `json:"name" validate:"required,max=120"`
	LocationID string `json:"locationId,omitempty"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.LocationID = strings.TrimSpace(d.LocationID)
}

func (d *UpdateDTO) Apply(dep Department) Department {
	dep.Name = d.Name
	dep.LocationID = d.LocationID
	return dep
}

type CreatedEvent struct {
	Result Department
}

type UpdatedEvent struct {
	Data   Department
	Result Department
}

type DeletedEvent struct {
	Result Department
}
