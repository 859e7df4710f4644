package location

import (
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type Location struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address"`
}

func (l Location) EntityID() string {
	return l.ID
}

type Repository = repo.Repository[Location]

type CreateDTO struct {
	ID      string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address,omitempty" validate:"max=255"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
}

func (d *CreateDTO) ToEntity() Location {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return Location{ID: id, Name: d.Name, Address: d.Address}
}

type UpdateDTO struct {
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address,omitempty" validate:"max=255"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
}

func (d *UpdateDTO) Apply(l Location) Location {
	l.Name = d.Name
	l.Address = d.Address
	return l
}

type CreatedEvent struct {
	Result Location
}

type UpdatedEvent struct {
	Data   Location
	Result Location
}

type DeletedEvent struct {
	Result Location
}
