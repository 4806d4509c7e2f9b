package graph

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"depviz/internal/module"
	"depviz/internal/topology"
)

// maxSymbolPreview caps how many imported symbols an edge label shows
// before truncating with an ellipsis.
const maxSymbolPreview = 3

// Node is one module in the abstract graph handed to the renderer.
type Node struct {
	ID      string // module file path, unique
	Label   string
	Cluster string
}

// Edge is one dependency, already oriented the way the renderer should
// draw it. Tooltip carries the full symbol list when Label is truncated.
type Edge struct {
	From    string
	To      string
	Label   string
	Tooltip string
}

// Graph is the renderer-facing model: nodes grouped under named clusters
// plus directed edges. Layout and styling belong to the renderer.
type Graph struct {
	Clusters []string // display order, "Root" first
	Nodes    []Node
	Edges    []Edge
}

// NodesInCluster returns the nodes assigned to one cluster, in build order.
func (g *Graph) NodesInCluster(cluster string) []Node {
	var nodes []Node
	for _, n := range g.Nodes {
		if n.Cluster == cluster {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Assembler converts the analyzed module registry and dependency set into
// the abstract graph. With ReverseArrows set (the default presentation),
// edges point from the imported module to its importer, answering "who uses
// me"; otherwise they follow the import direction.
type Assembler struct {
	topo          *topology.Topology
	reverseArrows bool
	logger        *log.Logger
}

func NewAssembler(topo *topology.Topology, reverseArrows bool, logger *log.Logger) *Assembler {
	return &Assembler{topo: topo, reverseArrows: reverseArrows, logger: logger}
}

// Build assembles the graph. Self-referential dependencies are suppressed.
func (a *Assembler) Build(modules map[string]*module.Module, deps []*module.Dependency) *Graph {
	g := &Graph{Clusters: append([]string(nil), a.topo.Order...)}

	byCluster := make(map[string][]*module.Module)
	for _, mod := range modules {
		byCluster[mod.Cluster] = append(byCluster[mod.Cluster], mod)
	}
	for _, cluster := range g.Clusters {
		mods := byCluster[cluster]
		sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
		for _, mod := range mods {
			g.Nodes = append(g.Nodes, Node{
				ID:      mod.FilePath,
				Label:   a.topo.NodeLabel(mod.RelPath, mod.Cluster),
				Cluster: cluster,
			})
		}
	}

	for _, dep := range deps {
		if dep.Source.FilePath == dep.Target.FilePath {
			continue
		}
		edge := Edge{From: dep.Source.FilePath, To: dep.Target.FilePath}
		if a.reverseArrows {
			edge.From, edge.To = edge.To, edge.From
		}
		edge.Label = symbolPreview(dep.Symbols)
		if len(dep.Symbols) > 0 {
			edge.Tooltip = strings.Join(dep.Symbols, ", ")
		}
		g.Edges = append(g.Edges, edge)
	}

	a.logger.Info("assembled graph", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g
}

func symbolPreview(symbols []string) string {
	if len(symbols) == 0 {
		return ""
	}
	if len(symbols) > maxSymbolPreview {
		return strings.Join(symbols[:maxSymbolPreview], ", ") + "..."
	}
	return strings.Join(symbols, ", ")
}
