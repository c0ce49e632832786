package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadercache/variant"
)

func newDeriveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "derive FAMILY [PROPERTY...]",
		Short: "Print the variant mask, name and defines for a property set",
		Example: `  shadervariants derive fill color
  shadervariants derive --order a,b,c custom c`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, _, err := g.properties(args[0], args[1:])
			if err != nil {
				return err
			}
			v, err := variant.Derive(args[0], props)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", v.Name)
			fmt.Fprintf(out, "mask:  %#x (%d promoted)\n", uint32(v.Mask), v.Mask.Count())
			if v.IsBase() {
				fmt.Fprintln(out, "defines: none (base variant)")
				return nil
			}
			fmt.Fprint(out, "defines:\n", v.Defines)
			return nil
		},
	}
}
