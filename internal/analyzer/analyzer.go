package analyzer

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"

	"depviz/internal/extractor"
	"depviz/internal/module"
	"depviz/internal/topology"
)

const initFile = "__init__.py"

// Analyzer owns one analysis run: it discovers source files, names them,
// extracts their imports, and resolves those imports into dependency edges
// between registered modules.
type Analyzer struct {
	projectRoot string
	topo        *topology.Topology
	ext         *extractor.Extractor
	logger      *log.Logger

	modules map[string]*module.Module // by file path
	byName  map[string]*module.Module // by dotted name
	deps    *module.DependencySet
	ignorer *ignore.GitIgnore // nil when the project has no .gitignore
}

func New(projectRoot string, topo *topology.Topology, ext *extractor.Extractor, logger *log.Logger) *Analyzer {
	a := &Analyzer{
		projectRoot: projectRoot,
		topo:        topo,
		ext:         ext,
		logger:      logger,
		modules:     make(map[string]*module.Module),
		byName:      make(map[string]*module.Module),
		deps:        module.NewDependencySet(),
	}
	if ign, err := ignore.CompileIgnoreFile(filepath.Join(projectRoot, ".gitignore")); err == nil {
		a.ignorer = ign
	}
	return a
}

// FindSourceFiles walks the project tree and returns every eligible .py
// file. Cache ("__"-prefixed), hidden ("."-prefixed) and gitignored
// directories are skipped.
func (a *Analyzer) FindSourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(a.projectRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(a.projectRoot, p)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if p == a.projectRoot {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, "__") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if a.ignorer != nil && a.ignorer.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		if a.ignorer != nil && a.ignorer.MatchesPath(rel) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("found source files", "count", len(files))
	return files, nil
}

// NormalizePath returns the slash-separated path of a file relative to the
// project root, collapsing an accidentally duplicated root-package directory
// level (root/pkg/pkg/... becomes pkg/...).
func (a *Analyzer) NormalizePath(filePath string) string {
	rel, err := filepath.Rel(a.projectRoot, filePath)
	if err != nil {
		rel = filePath
	}
	rel = filepath.ToSlash(filepath.Clean(rel))

	rootPackage := a.topo.RootPackage
	parts := strings.Split(rel, "/")
	if len(parts) >= 2 && parts[0] == rootPackage && parts[1] == rootPackage {
		rel = strings.Join(parts[1:], "/")
	}
	return rel
}

// ModuleName derives the dotted logical name for a file. A package
// initializer maps to its containing directory's name, or to the root
// package when it sits directly under the project root.
func (a *Analyzer) ModuleName(filePath string) string {
	rel := a.NormalizePath(filePath)

	if path.Base(rel) == initFile {
		dir := path.Dir(rel)
		if dir == "." {
			return a.topo.RootPackage
		}
		return strings.ReplaceAll(dir, "/", ".")
	}

	return strings.ReplaceAll(strings.TrimSuffix(rel, ".py"), "/", ".")
}

// LoadModules discovers the project's files and registers one module per
// file, keyed both by path and by dotted name. Name collisions keep the
// last-registered module; the earlier entry stays reachable by path only.
func (a *Analyzer) LoadModules() error {
	files, err := a.FindSourceFiles()
	if err != nil {
		return err
	}

	for _, filePath := range files {
		rel := a.NormalizePath(filePath)
		mod := &module.Module{
			FilePath: filePath,
			RelPath:  rel,
			Name:     a.ModuleName(filePath),
			Cluster:  a.topo.ClusterFor(rel),
		}
		a.modules[mod.FilePath] = mod
		a.byName[mod.Name] = mod
	}

	a.logger.Info("loaded modules", "count", len(a.modules))
	return nil
}

// AnalyzeImports extracts imports from every registered module and resolves
// each record against the registry. Files that cannot be read or parsed are
// logged and kept with an empty import list; references that resolve to
// nothing are external and silently discarded.
func (a *Analyzer) AnalyzeImports() {
	for _, mod := range a.sortedModules() {
		imports, err := a.ext.ExtractFile(mod.FilePath, mod.Name)
		if err != nil {
			if errors.Is(err, extractor.ErrParse) {
				a.logger.Warn("could not parse file", "path", mod.FilePath)
			} else {
				a.logger.Error("failed to process file", "path", mod.FilePath, "err", err)
			}
			continue
		}
		mod.Imports = imports

		for _, imp := range imports {
			target := a.Resolve(imp.Module)
			if target == nil {
				continue
			}
			a.deps.Add(mod, target, imp.Symbols)
		}
	}

	a.logger.Info("resolved dependencies", "count", a.deps.Len())
}

// Resolve maps a dotted import reference to a registered module, or nil for
// external references. An exact name match wins; otherwise the most specific
// registered name that is a dotted prefix of the reference (or that the
// reference is a prefix of) is chosen.
func (a *Analyzer) Resolve(ref string) *module.Module {
	if mod, ok := a.byName[ref]; ok {
		return mod
	}

	best := ""
	for name := range a.byName {
		if !strings.HasPrefix(name, ref+".") && !strings.HasPrefix(ref, name+".") {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	if best == "" {
		return nil
	}
	return a.byName[best]
}

// Modules returns the registry keyed by file path.
func (a *Analyzer) Modules() map[string]*module.Module {
	return a.modules
}

// ModuleByName looks up a module in the by-name index.
func (a *Analyzer) ModuleByName(name string) *module.Module {
	return a.byName[name]
}

// Dependencies returns the deduplicated edges in discovery order.
func (a *Analyzer) Dependencies() []*module.Dependency {
	return a.deps.All()
}

func (a *Analyzer) sortedModules() []*module.Module {
	mods := make([]*module.Module, 0, len(a.modules))
	for _, mod := range a.modules {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].FilePath < mods[j].FilePath })
	return mods
}
