package composables

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/pkg/constants"
)

type listQuery struct {
	Location    string   `form:"location"`
	Departments []string `form:"department"`
	Limit       int      `form:"limit"`
}

func TestUseQuery(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("GET", "/x?location=hq&department=d1&department=d2&limit=5", nil)
	q, err := UseQuery(&listQuery{}, r)
	require.NoError(t, err)
	assert.Equal(t, "hq", q.Location)
	assert.Equal(t, []string{"d1", "d2"}, q.Departments)
	assert.Equal(t, 5, q.Limit)
}

func TestUseLogger_Fallback(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, UseLogger(context.Background()))

	entry := logrus.New().WithField("component", "test")
	ctx := WithLogger(context.Background(), entry)
	assert.Same(t, entry, UseLogger(ctx))
}

func TestUseRequestID(t *testing.T) {
	t.Parallel()
	_, ok := UseRequestID(context.Background())
	assert.False(t, ok)

	ctx := WithParams(context.Background(), &Params{RequestID: "abc"})
	id, ok := UseRequestID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestUseIPAndRequestStart(t *testing.T) {
	t.Parallel()
	_, ok := UseIP(context.Background())
	assert.False(t, ok)
	_, ok = UseRequestStart(context.Background())
	assert.False(t, ok)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := WithParams(context.Background(), &Params{IP: "10.1.2.3"})
	ctx = context.WithValue(ctx, constants.RequestStart, start)
	ip, ok := UseIP(ctx)
	require.True(t, ok)
	assert.Equal(t, "10.1.2.3", ip)
	got, ok := UseRequestStart(ctx)
	require.True(t, ok)
	assert.Equal(t, start, got)
}
