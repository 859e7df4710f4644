package documents

import (
	"context"
	"net/http"

	"github.com/simple-lms/console/modules/core"
	corepersistence "github.com/simple-lms/console/modules/core/infrastructure/persistence"
	coreservices "github.com/simple-lms/console/modules/core/services"
	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/modules/documents/domain/richtext"
	"github.com/simple-lms/console/modules/documents/infrastructure/persistence"
	"github.com/simple-lms/console/modules/documents/presentation/controllers"
	"github.com/simple-lms/console/modules/documents/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/httpapi"
)

func NewModule() application.Module {
	return &Module{}
}

// Module depends on the core module being registered first.
type Module struct {
}

func (m *Module) Register(app application.Application) error {
	repos, err := persistence.Open(context.Background(), app.Persister())
	if err != nil {
		return err
	}
	coreRepos := app.Service(corepersistence.Repositories{}).(*corepersistence.Repositories)
	bus := app.EventPublisher()
	az := core.Authorizer(app)

	docTypeService := services.NewDocumentTypeService(repos.DocumentTypes, coreRepos.Departments, bus, az)
	recordTypeService := services.NewRecordTypeService(repos.RecordTypes, coreRepos.Departments, bus, az)
	templateService := services.NewTemplateService(repos.Templates, repos.RecordTypes, bus, az)
	recordService := services.NewRecordService(repos.Records, repos.Revisions, repos.RecordTypes, repos.Templates, bus, az)

	recordTypeService.RegisterReferences(templateService.CountByRecordType, recordService.CountByRecordType)
	departmentService := app.Service(coreservices.DepartmentService{}).(*coreservices.DepartmentService)
	departmentService.RegisterReferences(docTypeService.CountByDepartment, recordTypeService.CountByDepartment)

	searchService := app.Service(coreservices.SearchService{}).(*coreservices.SearchService)
	searchService.Register(services.SearchSources(repos.DocumentTypes, repos.Templates, repos.Records)...)

	if app.Hub() != nil {
		broadcastChanges(app)
	}

	app.RegisterServices(
		repos,
		docTypeService,
		recordTypeService,
		templateService,
		recordService,
	)
	app.RegisterControllers(
		controllers.NewDocumentsAPIController(app),
	)

	httpapi.RegisterStatus(richtext.ErrOutOfRange.Code, http.StatusUnprocessableEntity)
	httpapi.RegisterStatus(richtext.ErrInvalidColor.Code, http.StatusUnprocessableEntity)
	httpapi.RegisterStatus(richtext.ErrUnknownOp.Code, http.StatusBadRequest)
	return nil
}

func (m *Module) Name() string {
	return "documents"
}

func broadcastChanges(app application.Application) {
	hub := app.Hub()
	bus := app.EventPublisher()
	send := func(typ, entity, id string) {
		hub.Broadcast(application.ChangeMessage{Type: typ, Entity: entity, ID: id})
	}

	bus.Subscribe(func(e *doctype.CreatedEvent) { send("created", "document-type", e.Result.ID) })
	bus.Subscribe(func(e *doctype.UpdatedEvent) { send("updated", "document-type", e.Result.ID) })
	bus.Subscribe(func(e *doctype.DeletedEvent) { send("deleted", "document-type", e.Result.ID) })
	bus.Subscribe(func(e *recordtype.CreatedEvent) { send("created", "record-type", e.Result.ID) })
	bus.Subscribe(func(e *recordtype.UpdatedEvent) { send("updated", "record-type", e.Result.ID) })
	bus.Subscribe(func(e *recordtype.DeletedEvent) { send("deleted", "record-type", e.Result.ID) })
	bus.Subscribe(func(e *template.CreatedEvent) { send("created", "template", e.Result.ID) })
	bus.Subscribe(func(e *template.UpdatedEvent) { send("updated", "template", e.Result.ID) })
	bus.Subscribe(func(e *template.DeletedEvent) { send("deleted", "template", e.Result.ID) })
	bus.Subscribe(func(e *record.CreatedEvent) { send("created", "record", e.Result.ID) })
	bus.Subscribe(func(e *record.UpdatedEvent) { send("updated", "record", e.Result.ID) })
	bus.Subscribe(func(e *record.DeletedEvent) { send("deleted", "record", e.Result.ID) })
}
