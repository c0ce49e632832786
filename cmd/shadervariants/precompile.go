package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadercache"
)

// maxPrecompileProperties bounds the 2^n enumeration.
const maxPrecompileProperties = 10

func newPrecompileCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "precompile [FAMILY...]",
		Short: "Compile every variant of the given families",
		Long: `Compiles all 2^n variants of each family, where n is the number of
properties in its order. Without arguments all built-in families are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			families := args
			if len(families) == 0 {
				for name := range builtinFamilies {
					families = append(families, name)
				}
				slices.Sort(families)
			}

			cache, err := newCache(g, nil)
			if err != nil {
				return err
			}
			defer cache.Destroy()

			var reqs []shadercache.PrecompileRequest
			for _, family := range families {
				order, primary, err := g.layout(family)
				if err != nil {
					return err
				}
				if len(order) > maxPrecompileProperties {
					return fmt.Errorf("family %q has %d properties, precompile supports at most %d",
						family, len(order), maxPrecompileProperties)
				}
				reqs = append(reqs, allVariants(family, order, primary)...)
			}

			if err := cache.Precompile(nil, reqs); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range cache.Names() {
				fmt.Fprintln(out, name)
			}
			s := cache.Stats()
			fmt.Fprintf(out, "%d variants, %d compiles\n", cache.Size(), s.Compiles)
			return nil
		},
	}
}

// allVariants enumerates every subset of order as a precompile request.
func allVariants(family string, order []string, primary string) []shadercache.PrecompileRequest {
	n := len(order)
	reqs := make([]shadercache.PrecompileRequest, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		props := make([]string, n)
		for i := range order {
			if mask&(1<<i) != 0 {
				props[i] = order[i]
			}
		}
		reqs = append(reqs, shadercache.PrecompileRequest{
			Family:           family,
			Properties:       props,
			PrimaryAttribute: primary,
		})
	}
	return reqs
}
