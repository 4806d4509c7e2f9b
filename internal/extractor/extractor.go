package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"depviz/internal/module"
)

// ErrParse marks a file whose syntax could not be read as a tree. The caller
// keeps the module registered with an empty import list.
var ErrParse = errors.New("syntax error")

const wildcard = "*"

// Extractor pulls raw import records out of Python source files. It
// dispatches over exactly two import node kinds and leaves every other
// construct unvisited.
type Extractor struct {
	parser *sitter.Parser
	logger *log.Logger
}

func New(logger *log.Logger) *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser, logger: logger}
}

// ExtractFile reads and parses one source file and returns its import
// records in source order. moduleName is the importing module's own dotted
// name, needed to expand relative references.
func (e *Extractor) ExtractFile(path, moduleName string) ([]module.RawImport, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.Extract(src, moduleName)
}

// Extract parses source bytes and collects import records.
func (e *Extractor) Extract(src []byte, moduleName string) ([]module.RawImport, error) {
	tree, err := e.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse module %s: %w", moduleName, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("module %s: %w", moduleName, ErrParse)
	}

	var imports []module.RawImport
	e.collect(root, src, moduleName, &imports)
	return imports, nil
}

func (e *Extractor) collect(n *sitter.Node, src []byte, moduleName string, out *[]module.RawImport) {
	switch n.Type() {
	case "import_statement":
		e.plainImport(n, src, out)
		return
	case "import_from_statement":
		e.fromImport(n, src, moduleName, out)
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.collect(n.NamedChild(i), src, moduleName, out)
	}
}

// plainImport handles "import a.b, c as d": one record per target, no
// symbols. Aliases are ignored; the literal module name is what resolution
// needs.
func (e *Extractor) plainImport(n *sitter.Node, src []byte, out *[]module.RawImport) {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) != "name" {
			continue
		}
		*out = append(*out, module.RawImport{Module: targetName(n.Child(i), src)})
	}
}

// fromImport handles the "from X import a, b" family, including relative
// references.
func (e *Extractor) fromImport(n *sitter.Node, src []byte, moduleName string, out *[]module.RawImport) {
	modNode := n.ChildByFieldName("module_name")
	if modNode == nil {
		return
	}

	var symbols []string
	sawWildcard := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "wildcard_import" {
			sawWildcard = true
			continue
		}
		if n.FieldNameForChild(i) != "name" {
			continue
		}
		name := targetName(child, src)
		if name == wildcard {
			sawWildcard = true
			continue
		}
		symbols = append(symbols, name)
	}
	if sawWildcard {
		e.logger.Warn("skipping wildcard import", "module", moduleName)
	}

	if modNode.Type() != "relative_import" {
		*out = append(*out, module.RawImport{Module: modNode.Content(src), Symbols: symbols})
		return
	}

	level, explicit := splitRelative(modNode, src)
	parts := strings.Split(moduleName, ".")
	if level > len(parts) {
		return
	}
	parent := strings.Join(parts[:len(parts)-level], ".")

	if explicit == "" {
		// "from . import a, b": each named symbol is its own fully
		// qualified target. A wildcard here produces no record at all.
		for _, sym := range symbols {
			*out = append(*out, module.RawImport{Module: joinDotted(parent, sym)})
		}
		return
	}

	*out = append(*out, module.RawImport{Module: joinDotted(parent, explicit), Symbols: symbols})
}

// splitRelative takes a relative_import node and returns the number of
// leading dots plus the explicit trailing module name, if any.
func splitRelative(n *sitter.Node, src []byte) (int, string) {
	level := 0
	explicit := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "import_prefix":
			level = len(child.Content(src))
		case "dotted_name":
			explicit = child.Content(src)
		}
	}
	return level, explicit
}

// targetName unwraps an aliased_import down to its real name.
func targetName(n *sitter.Node, src []byte) string {
	if n.Type() == "aliased_import" {
		if name := n.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	}
	return n.Content(src)
}

func joinDotted(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
