package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depviz/internal/analyzer"
	"depviz/internal/config"
	"depviz/internal/extractor"
	"depviz/internal/graph"
	"depviz/internal/render"
	"depviz/internal/topology"
)

var (
	flagProjectRoot  string
	flagOutput       string
	flagVerbose      bool
	flagDirection    string
	flagNormalArrows bool
	flagConfig       string
	flagRootPackage  string
	flagEngine       string
	flagFormat       string
	flagOpen         bool
)

var rootCmd = &cobra.Command{
	Use:          "depviz",
	Short:        "Analyze Python import dependencies and render a diagram",
	Long:         "depviz scans a Python project, resolves the import relationships between its files, and renders the resulting dependency graph with Graphviz.",
	RunE:         run,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagProjectRoot, "project-root", "", "project root directory (auto-detected when omitted)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "import_diagram", "output file base name, without extension")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagDirection, "direction", "TB", "graph direction: TB, LR, BT or RL")
	rootCmd.Flags().BoolVar(&flagNormalArrows, "normal-arrows", false, "point arrows from the importing module to the imported one")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML project configuration file")
	rootCmd.Flags().StringVar(&flagRootPackage, "root-package", "", "root package name (auto-detected when omitted)")
	rootCmd.Flags().StringVar(&flagEngine, "engine", "dot", "graphviz layout engine: dot, neato, fdp, twopi or circo")
	rootCmd.Flags().StringVar(&flagFormat, "format", "svg", "rendered output format")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the rendered diagram in the default viewer")
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "depviz",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	if !contains(render.Directions, flagDirection) {
		return fmt.Errorf("invalid direction %q, expected one of %v", flagDirection, render.Directions)
	}
	if !contains(render.Engines, flagEngine) {
		return fmt.Errorf("invalid engine %q, expected one of %v", flagEngine, render.Engines)
	}

	cfg := config.Load(flagConfig, logger)

	projectRoot, err := topology.FindProjectRoot(flagProjectRoot, logger)
	if err != nil {
		return err
	}

	var provider topology.Provider
	if flagRootPackage != "" || cfg.HasTopology() {
		rootPackage := flagRootPackage
		if rootPackage == "" {
			rootPackage = cfg.RootPackage
		}
		provider = topology.Static{Topo: topology.New(rootPackage, cfg.ClusterMappings)}
	} else {
		provider = topology.NewDetector(logger)
	}
	topo, err := provider.Provide(projectRoot)
	if err != nil {
		return err
	}
	logger.Info("using project topology", "root_package", topo.RootPackage, "clusters", topo.Order)

	an := analyzer.New(projectRoot, topo, extractor.New(logger), logger)
	if err := an.LoadModules(); err != nil {
		return err
	}
	an.AnalyzeImports()

	renderer := render.New(render.Options{
		Direction: flagDirection,
		Engine:    flagEngine,
		Format:    flagFormat,
	}, logger)

	var outPath string
	if len(an.Dependencies()) == 0 {
		logger.Warn("no dependencies found between project modules")
		outPath, err = renderer.RenderPlaceholder(flagOutput)
	} else {
		asm := graph.NewAssembler(topo, !flagNormalArrows, logger)
		outPath, err = renderer.Render(asm.Build(an.Modules(), an.Dependencies()), flagOutput)
	}
	if err != nil {
		logger.Error("failed to render diagram", "err", err)
		return err
	}

	if flagOpen {
		if err := render.OpenInViewer(outPath); err != nil {
			logger.Warn("could not open diagram", "path", outPath, "err", err)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
