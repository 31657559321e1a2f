package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaback/config"
	"ssaback/diag"
)

func TestLoadSetsDumpFlagsAndPlannerSwitch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	content := `
dump_parallel_copies: true
dump_pbqp_back_propagation: true
use_parallel_copy_planner: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	env, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, env.DumpFlags.Has(diag.DumpParallelCopies))
	assert.True(t, env.DumpFlags.Has(diag.DumpPBQPBackPropagation))
	assert.False(t, env.DumpFlags.Has(diag.DumpAfterPermPlacement))
	assert.True(t, env.UseParallelCopyPlanner)
	assert.Nil(t, env.Class, "Class is always left for the caller to fill in")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
