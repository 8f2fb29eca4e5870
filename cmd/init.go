package cmd

import (
	"fmt"

	"github.com/riggerhq/rigger/internal/bootstrap"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Rigger project in the current (or --project-root) directory",
	Long: `init creates the .rigger/ state directory, writes a default
config.json if one does not already exist, creates an empty policies/
directory for operator-authored Rego overrides, and initializes the
embedded database schema. Safe to run more than once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return fmt.Errorf("resolve project root: %w", err)
		}

		cfg, err := bootstrap.NewInitializer(root).Run()
		if err != nil {
			return err
		}

		if isJSON() {
			return printJSON(map[string]any{"project_root": root, "config_version": cfg.Version})
		}
		if !isQuiet() {
			fmt.Printf("Initialized Rigger project at %s\n", root)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
