package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-lms/console/pkg/serrors"
)

func newSyncedService(t *testing.T, mode Mode) *Service {
	t.Helper()
	svc, err := NewService(mode, logrus.New())
	require.NoError(t, err)
	require.NoError(t, svc.Sync(context.Background(),
		[]RoleGrant{
			{RoleID: "admin", Modules: []string{"*"}},
			{RoleID: "auditor", Modules: []string{"records", "documents"}, ReadOnly: true},
			{RoleID: "trainer", Modules: []string{"training", "training"}},
		},
		[]Membership{
			{UserID: "u1", RoleID: "admin"},
			{UserID: "u2", RoleID: "auditor"},
			{UserID: "u3", RoleID: "trainer"},
			{UserID: "u4"},
		},
	))
	return svc
}

func TestService_Check(t *testing.T) {
	t.Parallel()
	svc := newSyncedService(t, ModeEnforce)
	ctx := context.Background()

	cases := []struct {
		name    string
		user    string
		module  string
		action  string
		allowed bool
	}{
		{"admin any module", "u1", "orgchart", "edit", true},
		{"auditor view", "u2", "records", "list", true},
		{"auditor cannot edit", "u2", "records", "update", false},
		{"auditor other module", "u2", "safety", "view", false},
		{"trainer edit own", "u3", "Training", "create", true},
		{"no role", "u4", "training", "view", false},
		{"unknown user", "ghost", "training", "view", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.Check(ctx, NewRequest(SubjectForUser(tc.user), tc.module, tc.action))
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, ok)
		})
	}
}

func TestService_AuthorizeModes(t *testing.T) {
	t.Parallel()
	deny := NewRequest(SubjectForUser("u2"), "records", "delete")

	enforce := newSyncedService(t, ModeEnforce)
	err := enforce.Authorize(context.Background(), deny)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "AUTHZ_FORBIDDEN", serrors.CodeOf(err))

	shadow := newSyncedService(t, ModeShadow)
	require.NoError(t, shadow.Authorize(context.Background(), deny))

	disabled := newSyncedService(t, ModeDisabled)
	require.NoError(t, disabled.Authorize(context.Background(), deny))
}

func TestService_ActorHelpers(t *testing.T) {
	t.Parallel()
	svc := newSyncedService(t, ModeEnforce)

	require.NoError(t, svc.AuthorizeActor(context.Background(), "records", "delete"))
	assert.True(t, svc.Can(context.Background(), "safety", "view"))

	ctx := WithActor(context.Background(), "u2")
	require.Error(t, svc.AuthorizeActor(ctx, "records", "delete"))
	require.NoError(t, svc.AuthorizeActor(ctx, "records", "view"))
	assert.False(t, svc.Can(ctx, "safety", "view"))
}

func TestService_SyncReplacesPolicies(t *testing.T) {
	t.Parallel()
	svc := newSyncedService(t, ModeEnforce)
	ctx := WithActor(context.Background(), "u1")
	require.True(t, svc.Can(ctx, "kpis", "view"))

	require.NoError(t, svc.Sync(context.Background(), nil, nil))
	assert.False(t, svc.Can(ctx, "kpis", "view"))
}

func TestNormalizeAction(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ActionView, NormalizeAction(" LIST "))
	assert.Equal(t, ActionEdit, NormalizeAction("toggle"))
	assert.Equal(t, "approve", NormalizeAction("Approve"))
	assert.Equal(t, "*", NormalizeAction(""))
}

func TestSubjects(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user:anonymous", SubjectForUser(" "))
	assert.Equal(t, "role:admin", SubjectForRole("Admin"))
	assert.Equal(t, "role:x", SubjectForRole("role:x"))
	assert.Equal(t, "global", ObjectName(""))
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ModeEnforce, ParseMode("ENFORCE"))
	assert.Equal(t, ModeDisabled, ParseMode("disabled"))
	assert.Equal(t, ModeShadow, ParseMode("whatever"))
}
