package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cookcart/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [dir]",
		Short: "Write example recipes and an aisle mapping into a directory",
		Long: `Write example recipes and an aisle mapping into a directory.

The directory defaults to the recipe base path. A directory given as an
argument is created when missing. Files with the same name are overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.BasePath
			if len(args) == 1 {
				dir = args[0]
			}
			written, err := seed.Write(dir)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			a.log.WithField("dir", dir).WithField("files", len(written)).Info("recipes seeded")
			return nil
		},
	}
}
