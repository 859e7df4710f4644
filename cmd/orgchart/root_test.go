package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_DefaultSeed(t *testing.T) {
	out, err := runCmd(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 7 people")
}

func TestValidate_Cycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.yaml")
	content := `
users:
  - id: a
    name: A
    email: a@example.com
    managerId: b
  - id: b
    name: B
    email: b@example.com
    managerId: a
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	_, err := runCmd(t, "validate", "--seed", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestRender(t *testing.T) {
	out, err := runCmd(t, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "Margaret Chen — Plant Director")
	assert.Contains(t, out, "└── ")
}

func TestRender_Color(t *testing.T) {
	out, err := runCmd(t, "render", "--color")
	require.NoError(t, err)
	assert.Contains(t, out, "Margaret Chen — Plant Director")
	assert.Contains(t, out, "├── Tomás Ortega")
	assert.Contains(t, styleRoot("Margaret Chen"), "Margaret Chen")
}

func TestStats_JSONColor(t *testing.T) {
	out, err := runCmd(t, "stats", "--format", "json", "--color")
	require.NoError(t, err)
	assert.Contains(t, out, "people")
}

func TestRender_Filtered(t *testing.T) {
	out, err := runCmd(t, "render", "--location", "plant-south")
	require.NoError(t, err)
	assert.Contains(t, out, "Luca Romano — EHS Coordinator")
	assert.NotContains(t, out, "Margaret Chen")
}

func TestStats_JSON(t *testing.T) {
	out, err := runCmd(t, "stats", "--format", "json")
	require.NoError(t, err)

	var st struct {
		People   int `json:"people"`
		Roots    int `json:"roots"`
		MaxDepth int `json:"maxDepth"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 7, st.People)
	assert.Equal(t, 1, st.Roots)
	assert.Equal(t, 3, st.MaxDepth)
}

func TestStats_UnknownFormat(t *testing.T) {
	_, err := runCmd(t, "stats", "--format", "yaml")
	require.Error(t, err)
}

func TestExport_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.xlsx")
	out, err := runCmd(t, "export", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExport_RejectsFormat(t *testing.T) {
	_, err := runCmd(t, "export", "docx")
	require.Error(t, err)
}
