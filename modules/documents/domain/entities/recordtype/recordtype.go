package recordtype

import (
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type RecordType struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	RetentionDays int      `json:"retentionDays" yaml:"retentionDays"`
	DepartmentIDs []string `json:"departmentIds" yaml:"departmentIds"`
}

func (r RecordType) EntityID() string {
	return r.ID
}

type Repository = repo.Repository[RecordType]

type CreateDTO struct {
	ID            string   `json:"id,omitempty" validate:"omitempty,max=64"`
	Name          string   `json:"name" validate:"required,max=120"`
	RetentionDays int      `json:"retentionDays" validate:"gte=0,lte=36500"`
	DepartmentIDs []string `json:"departmentIds" validate:"dive,required"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
}

func (d *CreateDTO) ToEntity() RecordType {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return RecordType{ID: id, Name: d.Name, RetentionDays: d.RetentionDays, DepartmentIDs: d.DepartmentIDs}
}

type UpdateDTO struct {
	Name          string   `json:"name" validate:"required,max=120"`
	RetentionDays int      `json:"retentionDays" validate:"gte=0,lte=36500"`
	DepartmentIDs []string `json:"departmentIds" validate:"dive,required"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
}

func (d *UpdateDTO) Apply(r RecordType) RecordType {
	r.Name = d.Name
	r.RetentionDays = d.RetentionDays
	r.DepartmentIDs = d.DepartmentIDs
	return r
}

type CreatedEvent struct {
	Result RecordType
}

type UpdatedEvent struct {
	Data   RecordType
	Result RecordType
}

type DeletedEvent struct {
	Result RecordType
}
