package record

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/simple-lms/console/modules/documents/domain/richtext"
	"github.com/simple-lms/console/pkg/repo"
)

type Record struct {
	ID           string            `json:"id" yaml:"id"`
	RecordTypeID string            `json:"recordTypeId" yaml:"recordTypeId"`
	TemplateID   string            `json:"templateId,omitempty" yaml:"templateId"`
	Title        string            `json:"title" yaml:"title"`
	Body         richtext.Document `json:"body" yaml:"body"`
	AuthorID     string            `json:"authorId,omitempty" yaml:"authorId"`
	CreatedAt    time.Time         `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt" yaml:"updatedAt"`
}

func (r Record) EntityID() string {
	return r.ID
}

type Repository = repo.Repository[Record]

// Revision is one entry of a record's history. Patch is the RFC 6902 patch
// that turns the previous version into this one; the first revision patches
// from an empty object.
type Revision struct {
	ID        string          `json:"id"`
	RecordID  string          `json:"recordId"`
	Version   int             `json:"version"`
	AuthorID  string          `json:"authorId,omitempty"`
	Patch     json.RawMessage `json:"patch"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (r Revision) EntityID() string {
	return r.ID
}

type RevisionRepository = repo.Repository[Revision]

type CreateDTO struct {
	ID           string            `json:"id,omitempty" validate:"omitempty,max=64"`
	RecordTypeID string            `json:"recordTypeId" validate:"required"`
	Title        string            `json:"title" validate:"required,max=200"`
	Body         richtext.Document `json:"body"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.RecordTypeID = strings.TrimSpace(d.RecordTypeID)
	d.Title = strings.TrimSpace(d.Title)
	d.Body = d.Body.Normalize()
}

func (d *CreateDTO) ToEntity(authorID string, now time.Time) Record {
	id := d.ID
	if id == "" {
		id = repo.NewID()
	}
	return Record{
		ID:           id,
		RecordTypeID: d.RecordTypeID,
		Title:        d.Title,
		Body:         d.Body,
		AuthorID:     authorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type UpdateDTO struct {
	Title string            `json:"title" validate:"required,max=200"`
	Body  richtext.Document `json:"body"`
}

func (d *UpdateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Body = d.Body.Normalize()
}

func (d *UpdateDTO) Apply(r Record, now time.Time) Record {
	r.Title = d.Title
	r.Body = d.Body
	r.UpdatedAt = now
	return r
}

// FromTemplateDTO creates a record whose body is copied from a template.
type FromTemplateDTO struct {
	TemplateID string `json:"templateId" validate:"required"`
	Title      string `json:"title" validate:"omitempty,max=200"`
}

func (d *FromTemplateDTO) Normalize() {
	d.TemplateID = strings.TrimSpace(d.TemplateID)
	d.Title = strings.TrimSpace(d.Title)
}

type CreatedEvent struct {
	Result Record
}

type UpdatedEvent struct {
	Data   Record
	Result Record
}

type DeletedEvent struct {
	Result Record
}
