package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExtraRejectsUnknownProperty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bogus": true}`), 0o644))

	_, err := LoadExtra(path)
	assert.Error(t, err)
}

func TestLoadExtraRejectsWrongType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"watch": {"intervalSeconds": "soon"}}`), 0o644))

	_, err := LoadExtra(path)
	assert.Error(t, err)
}

func TestLoadExtraValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"watch": {"enabled": true, "intervalSeconds": 30}}`), 0o644))

	extra, err := LoadExtra(path)
	require.NoError(t, err)
	assert.True(t, extra.Watch.Enabled)
	assert.Equal(t, 30, extra.Watch.IntervalSeconds)
}
