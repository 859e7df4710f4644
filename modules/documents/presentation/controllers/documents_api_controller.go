package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/simple-lms/console/modules/documents/domain/entities/doctype"
	"github.com/simple-lms/console/modules/documents/domain/entities/record"
	"github.com/simple-lms/console/modules/documents/domain/entities/recordtype"
	"github.com/simple-lms/console/modules/documents/domain/entities/template"
	"github.com/simple-lms/console/modules/documents/domain/richtext"
	"github.com/simple-lms/console/modules/documents/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/httpapi"
	"github.com/simple-lms/console/pkg/serrors"
)

type DocumentsAPIController struct {
	app         application.Application
	docTypes    *services.DocumentTypeService
	recordTypes *services.RecordTypeService
	templates   *services.TemplateService
	records     *services.RecordService
	apiPrefix   string
}

func NewDocumentsAPIController(app application.Application) application.Controller {
	return &DocumentsAPIController{
		app:         app,
		docTypes:    app.Service(services.DocumentTypeService{}).(*services.DocumentTypeService),
		recordTypes: app.Service(services.RecordTypeService{}).(*services.RecordTypeService),
		templates:   app.Service(services.TemplateService{}).(*services.TemplateService),
		records:     app.Service(services.RecordService{}).(*services.RecordService),
		apiPrefix:   "/documents/api",
	}
}

func (c *DocumentsAPIController) Key() string {
	return c.apiPrefix
}

func (c *DocumentsAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/document-types", c.ListDocumentTypes).Methods(http.MethodGet)
	api.HandleFunc("/document-types", c.CreateDocumentType).Methods(http.MethodPost)
	api.HandleFunc("/document-types/{id}", c.GetDocumentType).Methods(http.MethodGet)
	api.HandleFunc("/document-types/{id}", c.UpdateDocumentType).Methods(http.MethodPut)
	api.HandleFunc("/document-types/{id}", c.DeleteDocumentType).Methods(http.MethodDelete)
	api.HandleFunc("/document-types/{id}/departments/{department}:toggle", c.ToggleDocumentTypeDepartment).Methods(http.MethodPost)

	api.HandleFunc("/record-types", c.ListRecordTypes).Methods(http.MethodGet)
	api.HandleFunc("/record-types", c.CreateRecordType).Methods(http.MethodPost)
	api.HandleFunc("/record-types/{id}", c.GetRecordType).Methods(http.MethodGet)
	api.HandleFunc("/record-types/{id}", c.UpdateRecordType).Methods(http.MethodPut)
	api.HandleFunc("/record-types/{id}", c.DeleteRecordType).Methods(http.MethodDelete)
	api.HandleFunc("/record-types/{id}/departments/{department}:toggle", c.ToggleRecordTypeDepartment).Methods(http.MethodPost)

	api.HandleFunc("/templates", c.ListTemplates).Methods(http.MethodGet)
	api.HandleFunc("/templates", c.CreateTemplate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{id}", c.GetTemplate).Methods(http.MethodGet)
	api.HandleFunc("/templates/{id}", c.UpdateTemplate).Methods(http.MethodPut)
	api.HandleFunc("/templates/{id}", c.DeleteTemplate).Methods(http.MethodDelete)

	api.HandleFunc("/records", c.ListRecords).Methods(http.MethodGet)
	api.HandleFunc("/records", c.CreateRecord).Methods(http.MethodPost)
	api.HandleFunc("/records:from-template", c.CreateRecordFromTemplate).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}", c.GetRecord).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}", c.UpdateRecord).Methods(http.MethodPut)
	api.HandleFunc("/records/{id}", c.DeleteRecord).Methods(http.MethodDelete)
	api.HandleFunc("/records/{id}/ops", c.ApplyRecordOps).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}/history", c.RecordHistory).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}/body.html", c.RecordBodyHTML).Methods(http.MethodGet)
}

func (c *DocumentsAPIController) ListDocumentTypes(w http.ResponseWriter, r *http.Request) {
	items, err := c.docTypes.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) GetDocumentType(w http.ResponseWriter, r *http.Request) {
	item, err := c.docTypes.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *DocumentsAPIController) CreateDocumentType(w http.ResponseWriter, r *http.Request) {
	var dto doctype.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.docTypes.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[doctype.DocumentType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) UpdateDocumentType(w http.ResponseWriter, r *http.Request) {
	var dto doctype.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.docTypes.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[doctype.DocumentType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) ToggleDocumentTypeDepartment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, items, err := c.docTypes.ToggleDepartment(r.Context(), vars["id"], vars["department"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[doctype.DocumentType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) DeleteDocumentType(w http.ResponseWriter, r *http.Request) {
	items, err := c.docTypes.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) ListRecordTypes(w http.ResponseWriter, r *http.Request) {
	items, err := c.recordTypes.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) GetRecordType(w http.ResponseWriter, r *http.Request) {
	item, err := c.recordTypes.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *DocumentsAPIController) CreateRecordType(w http.ResponseWriter, r *http.Request) {
	var dto recordtype.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.recordTypes.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[recordtype.RecordType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) UpdateRecordType(w http.ResponseWriter, r *http.Request) {
	var dto recordtype.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.recordTypes.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[recordtype.RecordType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) ToggleRecordTypeDepartment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, items, err := c.recordTypes.ToggleDepartment(r.Context(), vars["id"], vars["department"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[recordtype.RecordType]{Item: item, Items: items})
}

func (c *DocumentsAPIController) DeleteRecordType(w http.ResponseWriter, r *http.Request) {
	items, err := c.recordTypes.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	items, err := c.templates.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	item, err := c.templates.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *DocumentsAPIController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto template.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.templates.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[template.Template]{Item: item, Items: items})
}

func (c *DocumentsAPIController) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto template.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.templates.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[template.Template]{Item: item, Items: items})
}

func (c *DocumentsAPIController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	items, err := c.templates.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) ListRecords(w http.ResponseWriter, r *http.Request) {
	items, err := c.records.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) GetRecord(w http.ResponseWriter, r *http.Request) {
	item, err := c.records.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, item)
}

func (c *DocumentsAPIController) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto record.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.records.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[record.Record]{Item: item, Items: items})
}

func (c *DocumentsAPIController) CreateRecordFromTemplate(w http.ResponseWriter, r *http.Request) {
	var dto record.FromTemplateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.records.CreateFromTemplate(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.Created(w, httpapi.Mutation[record.Record]{Item: item, Items: items})
}

func (c *DocumentsAPIController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var dto record.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.records.Update(r.Context(), mux.Vars(r)["id"], &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[record.Record]{Item: item, Items: items})
}

func (c *DocumentsAPIController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	items, err := c.records.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

// ApplyRecordOps takes a JSON array of edit operations, applied in order.
func (c *DocumentsAPIController) ApplyRecordOps(w http.ResponseWriter, r *http.Request) {
	body, err := httpapi.ReadBody(r)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	ops, err := richtext.DecodeOps(body)
	if err != nil {
		if serrors.CodeOf(err) == "" {
			err = serrors.Wrapf(httpapi.ErrInvalidRequest, "decode ops: %v", err)
		}
		httpapi.WriteServiceError(w, r, err)
		return
	}
	item, items, err := c.records.ApplyOps(r.Context(), mux.Vars(r)["id"], ops)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.Mutation[record.Record]{Item: item, Items: items})
}

func (c *DocumentsAPIController) RecordHistory(w http.ResponseWriter, r *http.Request) {
	items, err := c.records.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(items))
}

func (c *DocumentsAPIController) RecordBodyHTML(w http.ResponseWriter, r *http.Request) {
	item, err := c.records.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(item.Body.HTML()))
}
