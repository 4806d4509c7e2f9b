package topology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const initFile = "__init__.py"

// Provider yields the topology for a project root. The auto-detecting
// Detector and the config-backed Static provider are interchangeable.
type Provider interface {
	Provide(projectRoot string) (*Topology, error)
}

// Static returns a pre-built topology, typically assembled from an explicit
// configuration document.
type Static struct {
	Topo *Topology
}

func (s Static) Provide(string) (*Topology, error) {
	return s.Topo, nil
}

// Detector infers a topology from on-disk layout alone. It is a best-effort
// heuristic; an all-"Root" outcome is a valid result, not a failure.
type Detector struct {
	logger *log.Logger
}

func NewDetector(logger *log.Logger) *Detector {
	return &Detector{logger: logger}
}

// Provide picks the root package and derives cluster mappings from the
// package directories directly beneath it.
func (d *Detector) Provide(projectRoot string) (*Topology, error) {
	rootPackage := d.detectRootPackage(projectRoot)
	mappings := map[string]string{"": RootCluster}

	rootPackagePath := filepath.Join(projectRoot, rootPackage)
	entries, err := os.ReadDir(rootPackagePath)
	if err != nil {
		// No root package directory on disk: everything lands in "Root".
		d.logger.Debug("root package directory not readable, using flat topology", "path", rootPackagePath)
		return New(rootPackage, mappings), nil
	}

	for _, entry := range entries {
		if !entry.IsDir() || !isPackageDir(filepath.Join(rootPackagePath, entry.Name())) {
			continue
		}
		name := entry.Name()
		switch {
		case name == "services" || name == "_services":
			// A services aggregator is not a cluster itself; each service
			// package below it becomes one.
			d.addServiceClusters(filepath.Join(rootPackagePath, name), name, mappings)
		case strings.HasPrefix(name, "_"):
			mappings[name] = capitalize(strings.TrimPrefix(name, "_"))
		}
	}

	return New(rootPackage, mappings), nil
}

// detectRootPackage scans the immediate children of the project root for
// package directories. One candidate wins outright; several are ranked by the
// number of source files they directly contain; none falls back to the
// project directory's own name.
func (d *Detector) detectRootPackage(projectRoot string) string {
	entries, err := os.ReadDir(projectRoot)
	if err != nil {
		return filepath.Base(projectRoot)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() && isPackageDir(filepath.Join(projectRoot, entry.Name())) {
			candidates = append(candidates, entry.Name())
		}
	}

	switch len(candidates) {
	case 0:
		return filepath.Base(projectRoot)
	case 1:
		return candidates[0]
	}

	best := ""
	maxFiles := -1
	for _, pkg := range candidates {
		count := countSourceFiles(filepath.Join(projectRoot, pkg))
		if count > maxFiles {
			maxFiles = count
			best = pkg
		}
	}
	d.logger.Debug("multiple root package candidates", "candidates", candidates, "chosen", best)
	return best
}

func (d *Detector) addServiceClusters(servicesPath, servicesDir string, mappings map[string]string) {
	entries, err := os.ReadDir(servicesPath)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isPackageDir(filepath.Join(servicesPath, entry.Name())) {
			continue
		}
		prefix := servicesDir + "/" + entry.Name()
		mappings[prefix] = strings.ToUpper(entry.Name())
	}
}

func isPackageDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, initFile))
	return err == nil && !info.IsDir()
}

func countSourceFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".py") {
			count++
		}
	}
	return count
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// projectMarkers are files whose presence suggests a directory is the root
// of a Python project.
var projectMarkers = []string{"setup.py", "pyproject.toml", "requirements.txt", ".git", "src"}

// FindProjectRoot resolves the directory to analyze. An explicitly specified
// path must exist; otherwise the current directory and up to four parents are
// probed for project markers, and the current directory is the last resort.
func FindProjectRoot(specified string, logger *log.Logger) (string, error) {
	if specified != "" {
		abs, err := filepath.Abs(specified)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("project directory does not exist: %s", abs)
		}
		return abs, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if hasProjectMarker(dir) {
		logger.Info("project root found in current directory", "path", dir)
		return dir, nil
	}

	probe := dir
	for i := 0; i < 4; i++ {
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
		if hasProjectMarker(probe) {
			logger.Info("project root found", "path", probe)
			return probe, nil
		}
	}

	logger.Warn("no project root markers found, using current directory", "path", dir)
	return dir, nil
}

func hasProjectMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
