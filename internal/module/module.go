package module

// RawImport is one import statement as extracted from source, before
// resolution. Module is a dotted name; Symbols is empty for whole-module
// imports ("import x") and carries the imported names for "from x import a, b".
type RawImport struct {
	Module  string
	Symbols []string
}

// Module represents one source file with its path and dotted logical name.
// Two modules are the same module iff their file paths are equal.
type Module struct {
	FilePath string
	RelPath  string
	Name     string
	Cluster  string
	Imports  []RawImport
}

// Dependency is a directed edge: Source imports (symbols from) Target.
// Both endpoints are project-internal modules.
type Dependency struct {
	Source  *Module
	Target  *Module
	Symbols []string
}

type depKey struct {
	source string
	target string
}

// DependencySet is a deduplicated, insertion-ordered collection of
// dependencies. Duplicate (source, target) pairs collapse to one edge whose
// symbol list is the union of everything observed, first-seen order.
type DependencySet struct {
	byKey map[depKey]*Dependency
	order []*Dependency
}

func NewDependencySet() *DependencySet {
	return &DependencySet{byKey: make(map[depKey]*Dependency)}
}

// Add records a dependency from source to target. Repeated pairs merge their
// imported symbols instead of producing a second edge.
func (s *DependencySet) Add(source, target *Module, symbols []string) {
	key := depKey{source: source.FilePath, target: target.FilePath}
	if existing, ok := s.byKey[key]; ok {
		existing.Symbols = unionSymbols(existing.Symbols, symbols)
		return
	}
	dep := &Dependency{Source: source, Target: target, Symbols: append([]string(nil), symbols...)}
	s.byKey[key] = dep
	s.order = append(s.order, dep)
}

// All returns the dependencies in insertion order.
func (s *DependencySet) All() []*Dependency {
	return s.order
}

// Len returns the number of distinct edges.
func (s *DependencySet) Len() int {
	return len(s.order)
}

func unionSymbols(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, sym := range existing {
		seen[sym] = struct{}{}
	}
	for _, sym := range incoming {
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		existing = append(existing, sym)
	}
	return existing
}
