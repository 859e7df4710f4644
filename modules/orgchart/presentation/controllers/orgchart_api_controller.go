package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/modules/orgchart/presentation/render"
	"github.com/simple-lms/console/modules/orgchart/services"
	"github.com/simple-lms/console/pkg/application"
	"github.com/simple-lms/console/pkg/composables"
	"github.com/simple-lms/console/pkg/httpapi"
)

type OrgChartAPIController struct {
	app       application.Application
	orgChart  *services.OrgChartService
	apiPrefix string
}

func NewOrgChartAPIController(app application.Application) application.Controller {
	return &OrgChartAPIController{
		app:       app,
		orgChart:  app.Service(services.OrgChartService{}).(*services.OrgChartService),
		apiPrefix: "/orgchart/api",
	}
}

func (c *OrgChartAPIController) Key() string {
	return c.apiPrefix
}

func (c *OrgChartAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.HandleFunc("/people", c.People).Methods(http.MethodGet)
	api.HandleFunc("/forest", c.Forest).Methods(http.MethodGet)
	api.HandleFunc("/tree.txt", c.Tree).Methods(http.MethodGet)
	api.HandleFunc("/stats", c.Stats).Methods(http.MethodGet)
	api.HandleFunc("/export.pdf", c.ExportPDF).Methods(http.MethodGet)
	api.HandleFunc("/export.xlsx", c.ExportXLSX).Methods(http.MethodGet)
}

func filterFrom(r *http.Request) (hierarchy.Filter, error) {
	f, err := composables.UseQuery(&hierarchy.Filter{}, r)
	if err != nil {
		return hierarchy.Filter{}, err
	}
	return *f, nil
}

func (c *OrgChartAPIController) People(w http.ResponseWriter, r *http.Request) {
	people, err := c.orgChart.People(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(people))
}

func (c *OrgChartAPIController) Forest(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		httpapi.BadRequest(w, r, err.Error())
		return
	}
	forest, err := c.orgChart.Forest(r.Context(), f)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, httpapi.NewList(forest))
}

// treeQuery.Depth is nil when the client leaves the depth to the server.
type treeQuery struct {
	Depth *int `form:"depth"`
}

func (c *OrgChartAPIController) Tree(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		httpapi.BadRequest(w, r, err.Error())
		return
	}
	q, err := composables.UseQuery(&treeQuery{}, r)
	if err != nil || (q.Depth != nil && *q.Depth < 0) {
		httpapi.BadRequest(w, r, "depth must be a non-negative integer")
		return
	}
	depth := services.DefaultDepth
	if q.Depth != nil {
		depth = *q.Depth
	}
	text, err := c.orgChart.Render(r.Context(), f, render.Options{MaxDepth: depth})
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text)
}

func (c *OrgChartAPIController) Stats(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		httpapi.BadRequest(w, r, err.Error())
		return
	}
	st, err := c.orgChart.Stats(r.Context(), f)
	if err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	httpapi.OK(w, st)
}

func (c *OrgChartAPIController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	c.export(w, r, "orgchart.pdf", c.orgChart.ExportPDF)
}

func (c *OrgChartAPIController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	c.export(w, r, "orgchart.xlsx", c.orgChart.ExportXLSX)
}

// export renders into a buffer first so failures still produce a JSON error.
func (c *OrgChartAPIController) export(
	w http.ResponseWriter,
	r *http.Request,
	filename string,
	write func(ctx context.Context, w io.Writer, f hierarchy.Filter) error,
) {
	f, err := filterFrom(r)
	if err != nil {
		httpapi.BadRequest(w, r, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := write(r.Context(), &buf, f); err != nil {
		httpapi.WriteServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", mimetype.Detect(buf.Bytes()).String())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}
