package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cookcart/internal/config"
	"cookcart/internal/logger"
	"cookcart/internal/recipe"
	"cookcart/internal/shopping"
	"cookcart/internal/units"
)

// app carries what every subcommand shares once the root command has
// loaded the configuration.
type app struct {
	configFile string
	cfg        *config.Config
	log        *logger.Logger
	units      *units.Table
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cook",
		Short: "Build categorized shopping lists from recipe files",
		Long: `cook reads YAML recipes from a directory, merges the ingredients of the
selected recipes into one list and sorts it by supermarket aisle.

Examples:
  cook shopping-list breakfast/pancakes dinner/lasagne*2
  cook recipe dinner/lasagne*2
  cook search chicken
  cook seed ./recipes
  cook serve --addr :9080`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is ./config.json when present)")
	pf.String("base-path", "", "recipe directory (default is the working directory)")
	pf.String("aisle", "", "aisle mapping file")
	pf.String("units", "", "unit conversion table (TOML)")
	pf.String("log-level", "", "log level: trace, debug, info, warn or error")

	root.AddCommand(newServeCmd(a), newShoppingListCmd(a), newRecipeCmd(a), newSearchCmd(a), newSeedCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Output:      cmd.ErrOrStderr(),
	})

	table, err := cfg.Units()
	if err != nil {
		return fmt.Errorf("failed to load units: %w", err)
	}
	a.units = table
	return nil
}

func (a *app) catalog() *recipe.Catalog {
	return recipe.NewCatalog(a.cfg.BasePath, config.LocalConfigDir)
}

func (a *app) aisleMapping() *shopping.AisleMapping {
	m, err := a.cfg.AisleMapping()
	if err != nil {
		a.log.WithError(err).Warn("aisle mapping unavailable, list will be uncategorized")
	}
	return m
}
