package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/auth"
)

// SetupTestDir creates a temporary directory holding a rota.yaml built from
// SampleConfigYAML with TestPassword hashed. Returns the directory and the
// config path. The directory is automatically cleaned up when the test
// completes.
func SetupTestDir(t *testing.T) (string, string) {
	t.Helper()

	tmpDir := t.TempDir()

	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	configPath := filepath.Join(tmpDir, "rota.yaml")
	WriteTestFile(t, tmpDir, "rota.yaml", []byte(SampleConfigYAML(hash)))
	return tmpDir, configPath
}

// MustMarshalJSON marshals a value to JSON, failing the test on error.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// MustUnmarshalJSON unmarshals JSON data into v, failing the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

// WriteTestFile writes content to a file in the test directory.
// Creates parent directories as needed.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) {
	t.Helper()
	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
}
