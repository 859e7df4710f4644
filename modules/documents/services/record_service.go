package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/wI2L/jsondiff"

	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/modules/documents/domain/richtext"
	"github.com/simple-lms/console/pkg/authz"
	"github.com/simple-lms/console/pkg/eventbus"
	"github.com/simple-lms/console/pkg/validation"
)

type RecordService struct {
	repo        record.Repository
	revisions   record.RevisionRepository
	recordTypes recordtype.Repository
	templates   template.Repository
	publisher   eventbus.EventBus
	authorizer  coreservices.Authorizer
	now         func() time.Time
	// mu serializes writes so revision versions stay contiguous.
	mu sync.Mutex
}

type RecordServiceOption func(*RecordService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) RecordServiceOption {
	return func(s *RecordService) {
		s.now = now
	}
}

func NewRecordService(
	repo record.Repository,
	revisions record.RevisionRepository,
	recordTypes recordtype.Repository,
	templates template.Repository,
	publisher eventbus.EventBus,
	authorizer coreservices.Authorizer,
	opts ...RecordServiceOption,
) *RecordService {
	s := &RecordService{
		repo:        repo,
		revisions:   revisions,
		recordTypes: recordTypes,
		templates:   templates,
		publisher:   publisher,
		authorizer:  authorizer,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecordService) GetAll(ctx context.Context) ([]record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *RecordService) GetByID(ctx context.Context, id string) (record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "view"); err != nil {
		return record.Record{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// CountByRecordType is a ReferenceCounter for record types.
func (s *RecordService) CountByRecordType(ctx context.Context, id string) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return countWhere(all, func(r record.Record) bool { return r.RecordTypeID == id }), nil
}

func (s *RecordService) checkRecordType(ctx context.Context, id string) error {
	if s.recordTypes == nil {
		return nil
	}
	if _, err := s.recordTypes.GetByID(ctx, id); err != nil {
		return unknownReference("recordTypeId", id)
	}
	return nil
}

func actor(ctx context.Context) string {
	id, _ := authz.ActorFromContext(ctx)
	return id
}

func (s *RecordService) Create(ctx context.Context, dto *record.CreateDTO) (record.Record, []record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "create"); err != nil {
		return record.Record{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return record.Record{}, nil, err
	}
	if err := s.checkRecordType(ctx, dto.RecordTypeID); err != nil {
		return record.Record{}, nil, err
	}
	return s.create(ctx, dto.ToEntity(actor(ctx), s.now()))
}

// CreateFromTemplate starts a record with a copy of the template body.
// An empty title falls back to the template name.
func (s *RecordService) CreateFromTemplate(ctx context.Context, dto *record.FromTemplateDTO) (record.Record, []record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "create"); err != nil {
		return record.Record{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return record.Record{}, nil, err
	}
	tpl, err := s.templates.GetByID(ctx, dto.TemplateID)
	if err != nil {
		return record.Record{}, nil, err
	}
	title := dto.Title
	if title == "" {
		title = tpl.Name
	}
	create := &record.CreateDTO{
		RecordTypeID: tpl.RecordTypeID,
		Title:        title,
		Body:         richtext.Document{Runs: append([]richtext.Run(nil), tpl.Body.Runs...)},
	}
	create.Normalize()
	entity := create.ToEntity(actor(ctx), s.now())
	entity.TemplateID = tpl.ID
	return s.create(ctx, entity)
}

// create stores the record and its first revision; the record is removed
// again when the revision cannot be written.
func (s *RecordService) create(ctx context.Context, entity record.Record) (record.Record, []record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.repo.Create(ctx, entity)
	if err != nil {
		return record.Record{}, nil, err
	}
	if err := s.addRevision(ctx, nil, entity); err != nil {
		if _, rbErr := s.repo.Delete(ctx, entity.ID); rbErr != nil {
			return record.Record{}, nil, errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return record.Record{}, nil, err
	}
	s.publisher.Publish(&record.CreatedEvent{Result: entity})
	return entity, all, nil
}

func (s *RecordService) Update(ctx context.Context, id string, dto *record.UpdateDTO) (record.Record, []record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "update"); err != nil {
		return record.Record{}, nil, err
	}
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return record.Record{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return record.Record{}, nil, err
	}
	return s.save(ctx, current, dto.Apply(current, s.now()))
}

// ApplyOps applies every op to the record body or none of them.
func (s *RecordService) ApplyOps(ctx context.Context, id string, ops []richtext.Op) (record.Record, []record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "update"); err != nil {
		return record.Record{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return record.Record{}, nil, err
	}
	body, err := richtext.Apply(current.Body, ops...)
	if err != nil {
		return record.Record{}, nil, err
	}
	updated := current
	updated.Body = body
	updated.UpdatedAt = s.now()
	return s.save(ctx, current, updated)
}

// save stores updated and a revision from current; current is restored
// when the revision cannot be written. Callers hold s.mu.
func (s *RecordService) save(ctx context.Context, current, updated record.Record) (record.Record, []record.Record, error) {
	all, err := s.repo.Update(ctx, updated)
	if err != nil {
		return record.Record{}, nil, err
	}
	if err := s.addRevision(ctx, &current, updated); err != nil {
		if _, rbErr := s.repo.Update(ctx, current); rbErr != nil {
			return record.Record{}, nil, errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return record.Record{}, nil, err
	}
	s.publisher.Publish(&record.UpdatedEvent{Data: current, Result: updated})
	return updated, all, nil
}

func (s *RecordService) Delete(ctx context.Context, id string) ([]record.Record, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "delete"); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&record.DeletedEvent{Result: current})
	return all, nil
}

// History returns the revisions of a record, oldest first.
func (s *RecordService) History(ctx context.Context, id string) ([]record.Revision, error) {
	if err := authorizeDocuments(ctx, s.authorizer, RecordsAuthzObject, "view"); err != nil {
		return nil, err
	}
	out, err := s.history(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *RecordService) history(ctx context.Context, id string) ([]record.Revision, error) {
	if s.revisions == nil {
		return nil, nil
	}
	all, err := s.revisions.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]record.Revision, 0)
	for _, rev := range all {
		if rev.RecordID == id {
			out = append(out, rev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *RecordService) addRevision(ctx context.Context, prev *record.Record, next record.Record) error {
	if s.revisions == nil {
		return nil
	}
	before := []byte(`{}`)
	if prev != nil {
		b, err := json.Marshal(prev)
		if err != nil {
			return err
		}
		before = b
	}
	after, err := json.Marshal(next)
	if err != nil {
		return err
	}
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return errors.Wrap(err, "diff record")
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	existing, err := s.history(ctx, next.ID)
	if err != nil {
		return err
	}
	version := 1
	if n := len(existing); n > 0 {
		version = existing[n-1].Version + 1
	}
	_, err = s.revisions.Create(ctx, record.Revision{
		ID:        fmt.Sprintf("%s@%d", next.ID, version),
		RecordID:  next.ID,
		Version:   version,
		AuthorID:  actor(ctx),
		Patch:     raw,
		CreatedAt: next.UpdatedAt,
	})
	return err
}

// Seed fills empty record storage; seeded records get no history.
func (s *RecordService) Seed(ctx context.Context, items []record.Record) ([]record.Record, error) {
	existing, err := s.repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return existing, err
	}
	return s.repo.Replace(ctx, items)
}
