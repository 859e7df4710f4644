package persistence

import (
	"context"

	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/pkg/repo"
)

const (
	DocumentTypesCollection   = "document_types"
	RecordTypesCollection     = "record_types"
	TemplatesCollection       = "templates"
	RecordsCollection         = "records"
	RecordRevisionsCollection = "record_revisions"
)

type Repositories struct {
	DocumentTypes doctype.Repository
	RecordTypes   recordtype.Repository
	Templates     template.Repository
	Records       record.Repository
	Revisions     record.RevisionRepository
}

// Open loads the documents collections through p.
func Open(ctx context.Context, p repo.Persister) (*Repositories, error) {
	docTypes, err := repo.OpenCollection[doctype.DocumentType](ctx, DocumentTypesCollection, p)
	if err != nil {
		return nil, err
	}
	recordTypes, err := repo.OpenCollection[recordtype.RecordType](ctx, RecordTypesCollection, p)
	if err != nil {
		return nil, err
	}
	templates, err := repo.OpenCollection[template.Template](ctx, TemplatesCollection, p)
	if err != nil {
		return nil, err
	}
	records, err := repo.OpenCollection[record.Record](ctx, RecordsCollection, p)
	if err != nil {
		return nil, err
	}
	revisions, err := repo.OpenCollection[record.Revision](ctx, RecordRevisionsCollection, p)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		DocumentTypes: docTypes,
		RecordTypes:   recordTypes,
		Templates:     templates,
		Records:       records,
		Revisions:     revisions,
	}, nil
}
