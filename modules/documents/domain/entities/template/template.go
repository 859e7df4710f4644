package template

import (
	"strings"

	"github.com/simple-lms/console/modules/documents/domain/richtext"
	"github.com/simple-lms/console/pkg/repo"
)

type Template struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	RecordTypeID string            `json:"recordTypeId" yaml:"recordTypeId"`
	Body         richtext.Document `json:"body" yaml:"body"`
}

func (t Template) EntityID() string {
	return t.ID
}

type Repository = repo.Repository[Template]

type CreateDTO struct {
	ID           string            `json:"id,omitempty" validate:"omitempty,max=64"`
	Name         string            `json:"name" validate:"required,max=120"`
	RecordTypeID string            `json:"recordTypeId" validate:"required"`
	Body         richtext.Document `json:"body"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.RecordTypeID = strings.TrimSpace(d.RecordTypeID)
	d.Body = d.Body.Normalize()
}

func (d *CreateDTO) ToEntity() Template {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return Template{ID: id, Name: d.Name, RecordTypeID: d.RecordTypeID, Body: d.Body}
}

type UpdateDTO struct {
	Name         string            `json:"name" validate:"required,max=120"`
	RecordTypeID string            `json:"recordTypeId" validate:"required"`
	Body         richtext.Document `json:"body"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.RecordTypeID = strings.TrimSpace(d.RecordTypeID)
	d.Body = d.Body.Normalize()
}

func (d *UpdateDTO) Apply(t Template) Template {
	t.Name = d.Name
	t.RecordTypeID = d.RecordTypeID
	t.Body = d.Body
	return t
}

type CreatedEvent struct {
	Result Template
}

type UpdatedEvent struct {
	Data   Template
	Result Template
}

type DeletedEvent struct {
	Result Template
}
