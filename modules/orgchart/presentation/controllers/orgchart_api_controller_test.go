package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/modules/core"
	"github.com/simple-lms/console/modules/core/seed"
	"github.com/simple-lms/console/modules/documents"
	"github.com/simple-lms/console/modules/orgchart"
	"github.com/simple-lms/console/modules/orgchart/domain/hierarchy"
	"github.com/simple-lms/console/modules/orgchart/services"
	"github.com/simple-lms/console/pkg/application"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	return newRouterWith(t, services.Options{})
}

func newRouterWith(t *testing.T, opts services.Options) *mux.Router {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{Logger: logger})
	require.NoError(t, application.LoadModules(app,
		core.NewModule(),
		documents.NewModule(),
		orgchart.NewModule(opts),
	))
	data, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Func(data)(context.Background(), app))

	r := mux.NewRouter()
	for _, c := range app.Controllers() {
		c.Register(r)
	}
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestForest(t *testing.T) {
	t.Parallel()
	rec := get(t, newRouter(t), "/orgchart/api/forest")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Items []*hierarchy.Node `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	root := body.Items[0]
	assert.Equal(t, "u-1", root.Person.ID)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "u-2", root.Children[0].Person.ID)
	assert.Equal(t, "u-3", root.Children[1].Person.ID)
	assert.Equal(t, "u-6", root.Children[2].Person.ID)
}

func TestForest_Filters(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	rec := get(t, r, "/orgchart/api/forest?department=production&department=ehs")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Items []*hierarchy.Node `json:"items"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// Priya and Luca lose their manager to the filter and become roots.
	require.Equal(t, 2, body.Total)
	assert.Equal(t, "u-3", body.Items[0].Person.ID)
	assert.Equal(t, "u-6", body.Items[1].Person.ID)
	require.Len(t, body.Items[0].Children, 1)
	assert.Equal(t, "u-5", body.Items[0].Children[0].Person.ID)

	rec = get(t, r, "/orgchart/api/forest?q=zzzz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, rec.Body.String())
}

func TestTree(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	rec := get(t, r, "/orgchart/api/tree.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Margaret Chen — Plant Director")
	assert.Contains(t, rec.Body.String(), "Aisha Bello — Machine Operator")

	rec = get(t, r, "/orgchart/api/tree.txt?q=nobody-matches-this")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No results")

	rec = get(t, r, "/orgchart/api/tree.txt?depth=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	t.Parallel()
	rec := get(t, newRouter(t), "/orgchart/api/stats")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var st struct {
		People      int    `json:"people"`
		Roots       int    `json:"roots"`
		MaxDepth    int    `json:"maxDepth"`
		Managers    int    `json:"managers"`
		WidestSpan  int    `json:"widestSpan"`
		AverageSpan string `json:"averageSpan"`
		ByLocation  []struct {
			LocationID string `json:"locationId"`
			Count      int    `json:"count"`
		} `json:"byLocation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 7, st.People)
	assert.Equal(t, 1, st.Roots)
	assert.Equal(t, 3, st.MaxDepth)
	assert.Equal(t, 3, st.Managers)
	assert.Equal(t, 3, st.WidestSpan)
	assert.Equal(t, "2", st.AverageSpan)
	require.Len(t, st.ByLocation, 3)
	assert.Equal(t, "hq", st.ByLocation[0].LocationID)
	assert.Equal(t, 3, st.ByLocation[0].Count)
}

func TestExports(t *testing.T) {
	t.Parallel()
	r := newRouter(t)

	rec := get(t, r, "/orgchart/api/export.pdf")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "orgchart.pdf")

	rec = get(t, r, "/orgchart/api/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Positive(t, rec.Body.Len())
}

func TestTree_DepthOverridesDefault(t *testing.T) {
	t.Parallel()
	r := newRouterWith(t, services.Options{MaxDepth: 2})

	rec := get(t, r, "/orgchart/api/tree.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "…")
	assert.NotContains(t, rec.Body.String(), "Aisha Bello")

	rec = get(t, r, "/orgchart/api/tree.txt?depth=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "…")
	assert.Contains(t, rec.Body.String(), "Aisha Bello — Machine Operator")
}
