package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cookcart/internal/recipe"
	"cookcart/internal/render"
	"cookcart/internal/shopping"
	"cookcart/internal/shoppinglist"
)

type shoppingListOptions struct {
	format string
	output string
	width  int
	save   bool
}

func newShoppingListCmd(a *app) *cobra.Command {
	opts := &shoppingListOptions{}
	cmd := &cobra.Command{
		Use:     "shopping-list <recipe[*scale]>...",
		Aliases: []string{"sl"},
		Short:   "Print the combined shopping list of some recipes",
		Long: `Print the combined shopping list of some recipes.

Recipes are paths relative to the recipe directory, with or without the
.yaml extension. Append *N to scale a recipe, e.g. pancakes*2.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShoppingList(cmd, a, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "text", "output format: text, markdown, pretty, json or xlsx")
	f.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	f.IntVar(&opts.width, "width", 80, "word wrap width for the pretty format")
	f.BoolVar(&opts.save, "save", false, "also store the list in the database")
	return cmd
}

func runShoppingList(cmd *cobra.Command, a *app, opts *shoppingListOptions, args []string) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == render.FormatXLSX && opts.output == "" {
		return fmt.Errorf("the xlsx format needs --output")
	}

	selections := make([]recipe.Selection, 0, len(args))
	for _, arg := range args {
		sel, err := recipe.ParseSelection(arg)
		if err != nil {
			return err
		}
		selections = append(selections, sel)
	}

	ctx := cmd.Context()
	recipes, err := recipe.LoadSelections(ctx, a.catalog(), selections, a.cfg.LoadConcurrency)
	if err != nil {
		return err
	}
	list := shopping.Build(recipes, a.units, a.aisleMapping())
	a.log.WithField("recipes", len(selections)).WithField("ingredients", list.Len()).Debug("shopping list built")

	if opts.save {
		if err := saveList(cmd, a, selections, list); err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.output, err)
		}
		defer file.Close()
		out = file
	}
	return render.Write(out, format, list, opts.width)
}

func saveList(cmd *cobra.Command, a *app, selections []recipe.Selection, list shopping.ShoppingList) error {
	if a.cfg.DatabaseURL == "" {
		return fmt.Errorf("--save needs a database url (COOK_DATABASE_URL)")
	}
	store, err := shoppinglist.NewPostgresStore(cmd.Context(), a.cfg.DatabaseURL, a.cfg.RequestTimeout)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := &shoppinglist.Record{Recipes: selections, List: list}
	if err := store.Save(cmd.Context(), rec); err != nil {
		return err
	}
	a.log.WithField("id", rec.ID).Info("shopping list saved")
	return nil
}
