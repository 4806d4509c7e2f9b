package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestLoad(t *testing.T) {
	t.Run("Valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depviz.yml")
		content := "root_package: myapp\ncluster_mappings:\n  _core: Core\n  services/auth: AUTH\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg := Load(path, testLogger())
		assert.Equal(t, "myapp", cfg.RootPackage)
		assert.Equal(t, "Core", cfg.ClusterMappings["_core"])
		assert.True(t, cfg.HasTopology())
	})

	t.Run("Missing file falls back to empty config", func(t *testing.T) {
		cfg := Load(filepath.Join(t.TempDir(), "nope.yml"), testLogger())
		assert.Empty(t, cfg.RootPackage)
		assert.False(t, cfg.HasTopology())
	})

	t.Run("Malformed file falls back to empty config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("root_package: [unclosed"), 0o644))

		cfg := Load(path, testLogger())
		assert.False(t, cfg.HasTopology())
	})

	t.Run("Environment override", func(t *testing.T) {
		t.Setenv("DEPVIZ_ROOT_PACKAGE", "fromenv")
		cfg := Load("", testLogger())
		assert.Equal(t, "fromenv", cfg.RootPackage)
	})
}
