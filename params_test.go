package rebel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "rebel.hcl")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestDefaultParams(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.Error(t, Params{}.Validate())
}

func TestLoadParams(t *testing.T) {
	filename := writeConfig(t, `
buffer_capacity  = 1000
max_depth        = 3
leaf_parallelism = 4
seed             = 42
`)

	params, err := LoadParams(filename)
	require.NoError(t, err)

	expected := DefaultParams()
	expected.BufferCapacity = 1000
	expected.MaxDepth = 3
	expected.LeafParallelism = 4
	expected.Seed = 42
	require.Equal(t, expected, params)
}

func TestLoadParams_Errors(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)

	_, err = LoadParams(writeConfig(t, `buffer_capacity = `))
	require.Error(t, err)

	_, err = LoadParams(writeConfig(t, `unknown_option = 1`))
	require.Error(t, err)

	_, err = LoadParams(writeConfig(t, "buffer_capacity = 8\nbatch_size = 16\n"))
	require.Error(t, err)
}
