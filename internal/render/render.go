package render

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"depviz/internal/graph"
)

// Directions accepted for the rankdir layout attribute.
var Directions = []string{"TB", "LR", "BT", "RL"}

// Engines are the Graphviz layout programs we know how to invoke.
var Engines = []string{"dot", "neato", "fdp", "twopi", "circo"}

// Options configures the external Graphviz invocation.
type Options struct {
	Direction string // rankdir: TB, LR, BT, RL
	Engine    string // layout program: dot, neato, fdp, twopi, circo
	Format    string // output format, svg by default
}

func (o *Options) applyDefaults() {
	if o.Direction == "" {
		o.Direction = "TB"
	}
	if o.Engine == "" {
		o.Engine = "dot"
	}
	if o.Format == "" {
		o.Format = "svg"
	}
}

// Renderer drives the external Graphviz engine. It always writes the DOT
// intermediate next to the rendered output so the graph text can be
// inspected.
type Renderer struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) *Renderer {
	opts.applyDefaults()
	return &Renderer{opts: opts, logger: logger}
}

// Render writes <outBase>.gv and renders <outBase>.<format>, returning the
// rendered file's path. A missing or failing Graphviz installation is fatal
// to the run.
func (r *Renderer) Render(g *graph.Graph, outBase string) (string, error) {
	return r.render(r.DotSource(g), outBase)
}

// RenderPlaceholder emits the "no dependencies found" diagram.
func (r *Renderer) RenderPlaceholder(outBase string) (string, error) {
	return r.render(r.PlaceholderSource(), outBase)
}

func (r *Renderer) render(dot, outBase string) (string, error) {
	gvPath := outBase + ".gv"
	if err := os.WriteFile(gvPath, []byte(dot), 0o644); err != nil {
		return "", fmt.Errorf("failed to write graph description: %w", err)
	}
	r.logger.Info("wrote graph description", "path", gvPath)

	if _, err := exec.LookPath(r.opts.Engine); err != nil {
		return "", fmt.Errorf("graphviz engine %q not found; install Graphviz from https://graphviz.org/download/: %w", r.opts.Engine, err)
	}

	outPath := outBase + "." + r.opts.Format
	cmd := exec.Command(r.opts.Engine, "-T"+r.opts.Format, "-o", outPath, gvPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %s: %w", r.opts.Engine, bytes.TrimSpace(stderr.Bytes()), err)
	}

	if info, err := os.Stat(outPath); err == nil {
		r.logger.Info("rendered diagram", "path", outPath, "bytes", info.Size())
	}
	return outPath, nil
}

// OpenInViewer opens the rendered file with the platform's default viewer.
// Best effort only; callers treat a failure as a warning.
func OpenInViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
