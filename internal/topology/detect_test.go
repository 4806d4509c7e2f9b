package topology

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

// writeTree creates the given files (with empty content) below root,
// creating directories as needed.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte{}, 0o644))
	}
}

func TestDetector_Provide(t *testing.T) {
	t.Run("Single root package", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"myapp/__init__.py",
			"myapp/main.py",
		)

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.Equal(t, "myapp", topo.RootPackage)
		assert.Equal(t, []string{"Root"}, topo.Order)
	})

	t.Run("Private-marker subdirectory becomes cluster", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"myapp/__init__.py",
			"myapp/_core/__init__.py",
			"myapp/_core/engine.py",
		)

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.Equal(t, "Core", topo.ClusterMappings["_core"])
	})

	t.Run("Services subdirectories become clusters", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"myapp/__init__.py",
			"myapp/services/__init__.py",
			"myapp/services/auth/__init__.py",
			"myapp/services/billing/__init__.py",
			"myapp/services/notapackage/readme.txt",
		)

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.Equal(t, "AUTH", topo.ClusterMappings["services/auth"])
		assert.Equal(t, "BILLING", topo.ClusterMappings["services/billing"])
		assert.NotContains(t, topo.ClusterMappings, "services")
		assert.NotContains(t, topo.ClusterMappings, "services/notapackage")
	})

	t.Run("Most populated package wins among several", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"small/__init__.py",
			"big/__init__.py",
			"big/a.py",
			"big/b.py",
		)

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.Equal(t, "big", topo.RootPackage)
	})

	t.Run("No package falls back to directory name", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "scripts/run.py")

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(root), topo.RootPackage)
		assert.Equal(t, []string{"Root"}, topo.Order)
	})

	t.Run("Subdirectory without init file is ignored", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"myapp/__init__.py",
			"myapp/_data/schema.sql",
		)

		topo, err := NewDetector(testLogger()).Provide(root)
		require.NoError(t, err)
		assert.NotContains(t, topo.ClusterMappings, "_data")
	})
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("Explicit path must exist", func(t *testing.T) {
		_, err := FindProjectRoot(filepath.Join(t.TempDir(), "missing"), testLogger())
		assert.Error(t, err)
	})

	t.Run("Explicit path is returned absolute", func(t *testing.T) {
		dir := t.TempDir()
		got, err := FindProjectRoot(dir, testLogger())
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestStatic_Provide(t *testing.T) {
	topo := New("pkg", nil)
	got, err := Static{Topo: topo}.Provide("/anywhere")
	require.NoError(t, err)
	assert.Same(t, topo, got)
}
