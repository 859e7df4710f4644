package doctype

import (
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type DocumentType struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Prefix        string   `json:"prefix" yaml:"prefix"`
	DepartmentIDs []string `json:"departmentIds" yaml:"departmentIds"`
}

func (d DocumentType) EntityID() string {
	return d.ID
}

type Repository = repo.Repository[DocumentType]

type CreateDTO struct {
	ID            string   `json:"id,omitempty" validate:"omitempty,max=64"`
	Name          string   `json:"name" validate:"required,max=120"`
	Prefix        string   `json:"prefix" validate:"required,alphanum,max=8"`
	DepartmentIDs []string `json:"departmentIds" validate:"dive,required"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Prefix = strings.ToUpper(strings.TrimSpace(d.Prefix))
}

func (d *CreateDTO) ToEntity() DocumentType {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return DocumentType{ID: id, Name: d.Name, Prefix: d.Prefix, DepartmentIDs: d.DepartmentIDs}
}

type UpdateDTO struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Prefix        string   `json:"prefix" validate:"required,alphanum,max=8"`
	DepartmentIDs []string `json:"departmentIds" validate:"dive,required"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Prefix = strings.ToUpper(strings.TrimSpace(d.Prefix))
}

func (d *UpdateDTO) Apply(t DocumentType) DocumentType {
	t.Name = d.Name
	t.Prefix = d.Prefix
	t.DepartmentIDs = d.DepartmentIDs
	return t
}

type CreatedEvent struct {
	Result DocumentType
}

type UpdatedEvent struct {
	Data   DocumentType
	Result DocumentType
}

type DeletedEvent struct {
	Result DocumentType
}
