package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusController_CustomRegistry(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "widgets_total", Help: "w"})
	reg.MustRegister(c)
	c.Add(3)

	ctrl := NewPrometheusControllerFor("", reg)
	assert.Equal(t, DefaultPath, ctrl.Key())

	r := mux.NewRouter()
	ctrl.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, DefaultPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "widgets_total 3")
}

func TestInstrument_UsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Instrument())
	r.HandleFunc("/core/api/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)

	before := testutil.ToFloat64(requests.WithLabelValues("/core/api/users/{id}", http.MethodGet, "418"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/core/api/users/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	after := testutil.ToFloat64(requests.WithLabelValues("/core/api/users/{id}", http.MethodGet, "418"))
	assert.InDelta(t, 2, after-before, 0.001)
}
