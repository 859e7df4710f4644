package role

import (
	"slices"
	"strings"

	"github.com/simple-lms/console/pkg/repo"
)

type Role struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Modules     []string `json:"modules" yaml:"modules"`
	ReadOnly    bool     `json:"readOnly" yaml:"readOnly"`
}

func (r Role) EntityID() string {
	return r.ID
}

// HasModule reports whether the role grants access to module.
func (r Role) HasModule(module string) bool {
	return slices.Contains(r.Modules, module) || slices.Contains(r.Modules, "*")
}

type Repository = repo.Repository[Role]

type CreateDTO struct {
	ID          string   `json:"id,omitempty" validate:"omitempty,max=64"`
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	Modules     []string `json:"modules" validate:"dive,required"`
	ReadOnly    bool     `json:"readOnly"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Modules = normalizeModules(d.Modules)
}

func (d *CreateDTO) ToEntity() Role {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return Role{ID: id, Name: d.Name, Description: d.Description, Modules: d.Modules, ReadOnly: d.ReadOnly}
}

type UpdateDTO struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description,omitempty" validate:"max=500"`
	Modules     []string `json:"modules" validate:"dive,required"`
	ReadOnly    bool     `json:"readOnly"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Modules = normalizeModules(d.Modules)
}

func (d *UpdateDTO) Apply(r Role) Role {
	r.Name = d.Name
	r.Description = d.Description
	r.Modules = d.Modules
	r.ReadOnly = d.ReadOnly
	return r
}

// normalizeModules trims, lowercases and de-duplicates keeping first occurrence.
func normalizeModules(modules []string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || slices.Contains(out, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

type CreatedEvent struct {
	Result Role
}

type UpdatedEvent struct {
	Data   Role
	Result Role
}

type DeletedEvent struct {
	Result Role
}
