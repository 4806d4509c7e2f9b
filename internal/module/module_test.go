package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencySet_Add(t *testing.T) {
	a := &Module{FilePath: "pkg/a.py", Name: "pkg.a"}
	b := &Module{FilePath: "pkg/b.py", Name: "pkg.b"}
	c := &Module{FilePath: "pkg/c.py", Name: "pkg.c"}

	set := NewDependencySet()
	set.Add(a, b, []string{"foo", "bar"})
	set.Add(a, c, nil)
	set.Add(a, b, []string{"bar", "baz"})

	t.Run("Deduplication by path pair", func(t *testing.T) {
		assert.Equal(t, 2, set.Len(), "repeated (source, target) pairs should collapse to one edge")
	})

	t.Run("Symbol union", func(t *testing.T) {
		deps := set.All()
		assert.Equal(t, []string{"foo", "bar", "baz"}, deps[0].Symbols)
	})

	t.Run("Insertion order", func(t *testing.T) {
		deps := set.All()
		assert.Equal(t, "pkg/b.py", deps[0].Target.FilePath)
		assert.Equal(t, "pkg/c.py", deps[1].Target.FilePath)
	})

	t.Run("Empty symbols stay empty", func(t *testing.T) {
		deps := set.All()
		assert.Empty(t, deps[1].Symbols)
	})
}
