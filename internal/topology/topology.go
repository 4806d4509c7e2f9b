package topology

import (
	"path"
	"sort"
	"strings"
)

// RootCluster is the fallback cluster for files that match no explicit
// prefix mapping.
const RootCluster = "Root"

// Topology maps path prefixes inside the root package to named clusters.
// It is built once, before analysis, and never mutated afterwards.
type Topology struct {
	RootPackage string

	// ClusterMappings maps a slash-separated path prefix (relative to the
	// root package) to a cluster name. The empty prefix maps to "Root".
	ClusterMappings map[string]string

	// Order is the display order of clusters. "Root" always comes first.
	Order []string
}

// New builds a topology for the given root package. A nil mappings argument
// yields the single default "Root" cluster.
func New(rootPackage string, mappings map[string]string) *Topology {
	if mappings == nil {
		mappings = map[string]string{"": RootCluster}
	}
	if _, ok := mappings[""]; !ok {
		mappings[""] = RootCluster
	}

	seen := make(map[string]struct{}, len(mappings))
	var order []string
	for _, name := range mappings {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	sort.Strings(order)
	for i, name := range order {
		if name == RootCluster {
			order = append(order[:i], order[i+1:]...)
			order = append([]string{RootCluster}, order...)
			break
		}
	}

	return &Topology{
		RootPackage:     rootPackage,
		ClusterMappings: mappings,
		Order:           order,
	}
}

// ClusterFor returns the cluster for a file, given its slash-separated path
// relative to the project root. Matching is most-specific-prefix first; files
// that match nothing fall back to "Root".
func (t *Topology) ClusterFor(relPath string) string {
	prefixes := make([]string, 0, len(t.ClusterMappings))
	for prefix := range t.ClusterMappings {
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	for _, prefix := range prefixes {
		full := t.RootPackage + "/" + prefix
		if relPath == full || strings.HasPrefix(relPath, full+"/") {
			return t.ClusterMappings[prefix]
		}
	}

	// Empty prefix covers files directly inside the root package.
	if relPath == t.RootPackage ||
		(strings.HasPrefix(relPath, t.RootPackage+"/") &&
			!strings.Contains(relPath[len(t.RootPackage)+1:], "/")) {
		return t.ClusterMappings[""]
	}

	return RootCluster
}

// NodeLabel derives a short human-readable label for a file: the path with
// its cluster prefix stripped. Root-cluster files keep the full relative path.
func (t *Topology) NodeLabel(relPath, cluster string) string {
	if cluster == RootCluster {
		return relPath
	}
	for prefix, name := range t.ClusterMappings {
		if name != cluster || prefix == "" {
			continue
		}
		full := t.RootPackage + "/" + prefix + "/"
		if strings.HasPrefix(relPath, full) {
			return relPath[len(full):]
		}
	}
	return path.Base(relPath)
}
