// Command shadervariants inspects and precompiles shader variants.
//
// Usage:
//
//	shadervariants derive fill color
//	shadervariants compile --backend mtl --code line color width
//	shadervariants precompile --backend gl fill symbol
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
	"github.com/gogpu/shadercache/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose  bool
	backend  string
	manifest string
	order    []string
	primary  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "shadervariants",
		Short: "Inspect and precompile shader variants",
		Long: `shadervariants derives variant keys and compiles shader variants with the
same cache and compiler a renderer uses at runtime.

A variant is selected by a family and the properties promoted to uniforms.
For built-in families (fill, line, symbol) the property order is known;
families loaded from a manifest need --order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.verbose {
				shadercache.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log cache and compiler activity to stderr")
	pf.StringVarP(&g.backend, "backend", "b", backend.NameVulkan, "target backend (vulkan, metal, opengl)")
	pf.StringVarP(&g.manifest, "manifest", "m", "", "YAML manifest with additional shader families")
	pf.StringSliceVar(&g.order, "order", nil, "property order of the family (defaults to the built-in order)")
	pf.StringVar(&g.primary, "primary", "", "primary vertex attribute (defaults to the built-in anchor)")

	root.AddCommand(newDeriveCmd(g), newCompileCmd(g), newPrecompileCmd(g))
	return root
}

// builtinFamily describes the property order and anchor of a built-in family.
type builtinFamily struct {
	properties []string
	primary    string
}

var builtinFamilies = map[string]builtinFamily{
	source.Fill:   {properties: source.FillProperties, primary: source.FillPrimaryAttribute},
	source.Line:   {properties: source.LineProperties, primary: source.LinePrimaryAttribute},
	source.Symbol: {properties: source.SymbolProperties, primary: source.SymbolPrimaryAttribute},
}

// layout returns the property order and primary attribute for family,
// with flags taking precedence over the built-in values.
func (g *globalFlags) layout(family string) (order []string, primary string, err error) {
	b, builtin := builtinFamilies[family]
	order, primary = b.properties, b.primary
	if len(g.order) > 0 {
		order = g.order
	}
	if g.primary != "" {
		primary = g.primary
	}
	if !builtin && len(g.order) == 0 {
		return nil, "", fmt.Errorf("family %q is not built in: --order is required", family)
	}
	return order, primary, nil
}

// properties promotes the enabled names into the family's order.
func (g *globalFlags) properties(family string, enabled []string) ([]string, string, error) {
	order, primary, err := g.layout(family)
	if err != nil {
		return nil, "", err
	}
	for _, name := range enabled {
		if !slices.Contains(order, name) {
			return nil, "", fmt.Errorf("family %q has no property %q (order: %s)",
				family, name, strings.Join(order, ","))
		}
	}
	return source.Promote(order, enabled...), primary, nil
}

// sources returns the built-in registry, or the manifest registry when
// --manifest is set.
func (g *globalFlags) sources() (shadercache.SourceRegistry, error) {
	if g.manifest == "" {
		return source.Default(), nil
	}
	reg, err := source.LoadManifest(os.DirFS(filepath.Dir(g.manifest)), filepath.Base(g.manifest))
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return reg, nil
}

func (g *globalFlags) backendType() (backend.Type, error) {
	return backend.Parse(g.backend)
}
