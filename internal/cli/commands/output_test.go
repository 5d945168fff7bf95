package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftstay/admin/internal/api"
)

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()

	jsonFile := filepath.Join(dir, "category.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"name":"Hostels","icon":"bed","color":"#ff0000"}`), 0600))
	yamlFile := filepath.Join(dir, "category.yml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("name: Hostels\nicon: bed\ncolor: '#ff0000'\nisActive: false\n"), 0600))

	var fromJSON, fromYAML api.CategoryInput
	require.NoError(t, readPayload(jsonFile, &fromJSON))
	require.NoError(t, readPayload(yamlFile, &fromYAML))

	assert.Equal(t, "Hostels", fromJSON.Name)
	assert.Equal(t, fromJSON.Icon, fromYAML.Icon)
	assert.Equal(t, fromJSON.Color, fromYAML.Color)
	require.NotNil(t, fromYAML.IsActive)
	assert.False(t, *fromYAML.IsActive)

	err := readPayload(filepath.Join(dir, "missing.json"), &fromJSON)
	assert.ErrorContains(t, err, "failed to read")
}

func TestReadPayload_OverlaysExistingValues(t *testing.T) {
	file := filepath.Join(t.TempDir(), "patch.yaml")
	require.NoError(t, os.WriteFile(file, []byte("color: '#00ff00'\n"), 0600))

	in := api.CategoryInput{Name: "Hostels", Icon: "bed", Color: "#ff0000"}
	require.NoError(t, readPayload(file, &in))
	assert.Equal(t, "Hostels", in.Name)
	assert.Equal(t, "#00ff00", in.Color)
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, SessionExpiredMessage, FormatError(api.ErrSessionExpired))
	assert.Equal(t, "Error: boom", FormatError(errors.New("boom")))

	apiErr := &api.Error{
		Message: "Validation failed",
		Status:  422,
		ValidationErrors: []api.FieldError{
			{Field: "price", Message: "Price must be greater than 0"},
		},
	}
	assert.Equal(t, "Error: Validation failed (status 422)\n  - price: Price must be greater than 0", FormatError(apiErr))
}

func TestEmit(t *testing.T) {
	var out bytes.Buffer
	env := &Env{Out: &out, Output: OutputTable}

	require.NoError(t, env.emit([]string{}, &table{header: []string{"ID"}}))
	assert.Equal(t, "No results.\n", out.String())

	out.Reset()
	tbl := &table{header: []string{"ID", "NAME"}}
	tbl.add("1", "Hostels")
	require.NoError(t, env.emit(nil, tbl))
	assert.Equal(t, "ID  NAME\n──  ────\n1   Hostels\n", out.String())

	out.Reset()
	env.Output = OutputYAML
	require.NoError(t, env.emit(api.Category{ID: "1", Name: "Hostels"}, tbl))
	assert.Contains(t, out.String(), "name: Hostels\n")
	assert.Contains(t, out.String(), "isActive: false\n")
}
