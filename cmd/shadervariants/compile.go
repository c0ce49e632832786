package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
	"github.com/gogpu/shadercache/compiler"
	"github.com/gogpu/shadercache/intern"
)

type compileFlags struct {
	code   bool
	gles   bool
	header string
}

func newCompileCmd(g *globalFlags) *cobra.Command {
	f := &compileFlags{}
	cmd := &cobra.Command{
		Use:   "compile FAMILY [PROPERTY...]",
		Short: "Compile one variant and print its reflection or generated code",
		Example: `  shadervariants compile line color width
  shadervariants compile -b gl --gles --code fill opacity`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := newCache(g, f)
			if err != nil {
				return err
			}
			defer cache.Destroy()

			props, primary, err := g.properties(args[0], args[1:])
			if err != nil {
				return err
			}
			p, err := cache.GetOrCreateShader(nil, args[0], props, primary)
			if err != nil {
				return err
			}
			program := p.(*compiler.Program)

			out := cmd.OutOrStdout()
			if f.code {
				printCode(out, program)
				return nil
			}
			printSummary(out, program, cache.InternTable())
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.code, "code", false, "print the generated stage code instead of the summary")
	cmd.Flags().BoolVar(&f.gles, "gles", false, "emit GLSL ES 3.00 for the opengl backend")
	cmd.Flags().StringVar(&f.header, "header", "", "text prepended to both stages before the variant defines")
	return cmd
}

// newCache builds a cache with a compiler sharing its intern table.
func newCache(g *globalFlags, f *compileFlags) (*shadercache.Cache, error) {
	b, err := g.backendType()
	if err != nil {
		return nil, err
	}
	sources, err := g.sources()
	if err != nil {
		return nil, err
	}

	names := intern.New()
	opts := []compiler.Option{compiler.WithInternTable(names)}
	if f != nil && f.gles {
		opts = append(opts, compiler.WithGLSLVersion(glsl.VersionES300))
	}
	c, err := compiler.New(b, opts...)
	if err != nil {
		return nil, err
	}

	var params shadercache.ProgramParameters
	if f != nil {
		params.Header = f.header
	}
	return shadercache.New(c, sources,
		shadercache.WithInternTable(names),
		shadercache.WithParameters(params),
	)
}

func printSummary(w io.Writer, p *compiler.Program, names *intern.Table) {
	fmt.Fprintf(w, "variant:  %s (%s)\n", p.Name(), p.Backend())
	fmt.Fprintf(w, "entry:    %s / %s\n", p.Vertex.EntryPoint, p.Fragment.EntryPoint)
	if p.Anchor != nil {
		fmt.Fprintf(w, "anchor:   %s @location(%d)\n", p.Anchor.Name, p.Anchor.Location)
	} else {
		fmt.Fprintln(w, "anchor:   none")
	}

	fmt.Fprintln(w, "attributes:")
	for _, a := range p.Attributes {
		fmt.Fprintf(w, "  @location(%d) %s [id %d]\n", a.Location, a.Name, a.ID.Index())
	}
	fmt.Fprintln(w, "uniforms:")
	for _, u := range p.Uniforms {
		fmt.Fprintf(w, "  @group(%d) @binding(%d) %s [id %d]\n", u.Group, u.Binding, u.Name, u.ID.Index())
	}

	if p.Backend() == backend.Vulkan {
		fmt.Fprintf(w, "spirv:    %d + %d words\n", len(p.Vertex.SPIRV), len(p.Fragment.SPIRV))
	} else {
		fmt.Fprintf(w, "code:     %d + %d bytes\n", len(p.Vertex.Code), len(p.Fragment.Code))
	}
	fmt.Fprintf(w, "interned: %d names\n", names.Size())
}

func printCode(w io.Writer, p *compiler.Program) {
	for _, s := range []struct {
		name  string
		stage *compiler.Stage
	}{{"vertex", &p.Vertex}, {"fragment", &p.Fragment}} {
		fmt.Fprintf(w, "// ---- %s %s (%s) ----\n", p.Name(), s.name, s.stage.EntryPoint)
		if p.Backend() == backend.Vulkan {
			// SPIR-V is binary; print the resolved WGSL it was built from.
			fmt.Fprint(w, s.stage.Preprocessed)
		} else {
			fmt.Fprint(w, s.stage.Code)
		}
		fmt.Fprintln(w)
	}
}
