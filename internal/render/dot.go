package render

import (
	"fmt"
	"strings"

	"depviz/internal/graph"
)

// clusterColors is the fill palette for cluster boxes, translucent so edge
// lines stay readable through them. Clusters cycle through it in display
// order.
var clusterColors = []string{
	"#e41a1c30", // red
	"#4daf4a30", // green
	"#377eb830", // blue
	"#ff7f0030", // orange
	"#984ea330", // purple
	"#ffff3330", // yellow
	"#a6562830", // brown
	"#f781bf30", // pink
}

// DotSource renders the abstract graph as Graphviz DOT text: one subgraph
// per cluster, one box node per module, one styled edge per dependency.
func (r *Renderer) DotSource(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph python_imports {\n")
	r.writeGraphAttrs(&sb)

	for i, cluster := range g.Clusters {
		nodes := g.NodesInCluster(cluster)
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "    subgraph cluster_%d {\n", i)
		fmt.Fprintf(&sb, "        label=%s;\n", quote(cluster))
		sb.WriteString("        style=\"filled,rounded\";\n")
		fmt.Fprintf(&sb, "        fillcolor=%s;\n", quote(clusterColors[i%len(clusterColors)]))
		sb.WriteString("        fontcolor=\"#333333\";\n")
		sb.WriteString("        fontsize=16;\n")
		sb.WriteString("        fontname=\"Arial Bold\";\n")
		sb.WriteString("        color=\"#88888860\";\n")
		sb.WriteString("        penwidth=1.5;\n")
		sb.WriteString("        margin=20;\n")
		sb.WriteString("        labeljust=l;\n")
		for _, node := range nodes {
			fmt.Fprintf(&sb,
				"        %s [label=%s, shape=box, style=\"filled,rounded\", fillcolor=white, fontcolor=\"#333333\", fontsize=11, fontname=Arial, height=0.4, margin=\"0.15,0.1\", penwidth=1.0];\n",
				quote(node.ID), quote(node.Label))
		}
		sb.WriteString("    }\n")
	}

	for _, edge := range g.Edges {
		attrs := []string{
			"fontsize=9",
			"fontname=Arial",
			"fontcolor=\"#555555\"",
			"penwidth=0.7",
			"arrowsize=0.6",
			"color=\"#55555570\"",
			"arrowhead=vee",
			"constraint=true",
			"weight=1.5",
		}
		if edge.Label != "" {
			attrs = append(attrs, "label="+quote(edge.Label))
		}
		if edge.Tooltip != "" {
			attrs = append(attrs, "labeltooltip="+quote(edge.Tooltip))
		}
		fmt.Fprintf(&sb, "    %s -> %s [%s];\n", quote(edge.From), quote(edge.To), strings.Join(attrs, ", "))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// PlaceholderSource is the diagram emitted when no dependencies were found:
// a single informational box instead of an empty canvas.
func (r *Renderer) PlaceholderSource() string {
	var sb strings.Builder
	sb.WriteString("digraph python_imports {\n")
	fmt.Fprintf(&sb, "    rankdir=%s;\n", r.opts.Direction)
	sb.WriteString("    fontsize=16;\n")
	sb.WriteString("    placeholder [label=\"No dependencies found\", shape=box, style=\"filled,rounded\", fillcolor=\"#f5f5f5\"];\n")
	sb.WriteString("}\n")
	return sb.String()
}

func (r *Renderer) writeGraphAttrs(sb *strings.Builder) {
	fmt.Fprintf(sb, "    rankdir=%s;\n", r.opts.Direction)
	sb.WriteString("    splines=curved;\n")
	sb.WriteString("    fontsize=12;\n")
	sb.WriteString("    fontname=Arial;\n")
	sb.WriteString("    nodesep=1.0;\n")
	sb.WriteString("    ranksep=2.0;\n")
	sb.WriteString("    overlap=false;\n")
	sb.WriteString("    compound=true;\n")
	sb.WriteString("    bgcolor=white;\n")
	sb.WriteString("    pad=1.5;\n")
	sb.WriteString("    concentrate=true;\n")
	sb.WriteString("    ordering=out;\n")
	sb.WriteString("    sep=\"+25,25\";\n")
	sb.WriteString("    mclimit=2.0;\n")
	sb.WriteString("    pack=true;\n")
	sb.WriteString("    packmode=cluster;\n")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
