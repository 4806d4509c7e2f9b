package graph

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depviz/internal/module"
	"depviz/internal/topology"
)

func testModules() (map[string]*module.Module, *module.Module, *module.Module) {
	a := &module.Module{FilePath: "/p/pkg/a.py", RelPath: "pkg/a.py", Name: "pkg.a", Cluster: "Root"}
	b := &module.Module{FilePath: "/p/pkg/_core/b.py", RelPath: "pkg/_core/b.py", Name: "pkg._core.b", Cluster: "Core"}
	return map[string]*module.Module{a.FilePath: a, b.FilePath: b}, a, b
}

func testTopology() *topology.Topology {
	return topology.New("pkg", map[string]string{"": "Root", "_core": "Core"})
}

func TestAssembler_Build(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("Default reversed arrows", func(t *testing.T) {
		mods, a, b := testModules()
		deps := []*module.Dependency{{Source: a, Target: b, Symbols: []string{"thing"}}}

		g := NewAssembler(testTopology(), true, logger).Build(mods, deps)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, b.FilePath, g.Edges[0].From, "reversed edge starts at the imported module")
		assert.Equal(t, a.FilePath, g.Edges[0].To)
	})

	t.Run("Normal arrows follow the import", func(t *testing.T) {
		mods, a, b := testModules()
		deps := []*module.Dependency{{Source: a, Target: b}}

		g := NewAssembler(testTopology(), false, logger).Build(mods, deps)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, a.FilePath, g.Edges[0].From)
		assert.Equal(t, b.FilePath, g.Edges[0].To)
	})

	t.Run("Self edges suppressed", func(t *testing.T) {
		mods, a, _ := testModules()
		deps := []*module.Dependency{{Source: a, Target: a}}

		g := NewAssembler(testTopology(), true, logger).Build(mods, deps)
		assert.Empty(t, g.Edges)
	})

	t.Run("Symbol preview truncated", func(t *testing.T) {
		mods, a, b := testModules()
		deps := []*module.Dependency{{Source: a, Target: b, Symbols: []string{"w", "x", "y", "z"}}}

		g := NewAssembler(testTopology(), true, logger).Build(mods, deps)
		require.Len(t, g.Edges, 1)
		assert.Equal(t, "w, x, y...", g.Edges[0].Label)
		assert.Equal(t, "w, x, y, z", g.Edges[0].Tooltip)
	})

	t.Run("Nodes grouped and labeled per cluster", func(t *testing.T) {
		mods, _, _ := testModules()
		g := NewAssembler(testTopology(), true, logger).Build(mods, nil)

		assert.Equal(t, "Root", g.Clusters[0])
		core := g.NodesInCluster("Core")
		require.Len(t, core, 1)
		assert.Equal(t, "b.py", core[0].Label, "cluster prefix stripped from label")
		root := g.NodesInCluster("Root")
		require.Len(t, root, 1)
		assert.Equal(t, "pkg/a.py", root[0].Label)
	})
}
