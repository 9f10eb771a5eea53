package main

import (
	"github.com/spf13/cobra"

	"cookcart/internal/recipe"
	"cookcart/internal/render"
)

func newRecipeCmd(a *app) *cobra.Command {
	var (
		format string
		width  int
	)
	cmd := &cobra.Command{
		Use:   "recipe <recipe[*scale]>",
		Short: "Print one recipe with its ingredients grouped and scaled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			sel, err := recipe.ParseSelection(args[0])
			if err != nil {
				return err
			}
			r, err := a.catalog().Get(cmd.Context(), sel.Path)
			if err != nil {
				return err
			}
			return render.WriteRecipe(cmd.OutOrStdout(), f, recipe.NewScaled(sel.Path, r, sel.Scale, a.units), width)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, markdown, pretty or json")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for the pretty format")
	return cmd
}
