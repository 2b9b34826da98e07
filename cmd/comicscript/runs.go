package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, offline)
		if err != nil {
			return err
		}
		store, err := newScriptStore(cfg)
		if err != nil {
			return err
		}

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(out, "No saved scripts in %s\n", cfg.Paths.OutputDir)
			return nil
		}
		for _, run := range runs {
			fmt.Fprintln(out, run)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show RUN",
	Short: "Print a saved script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, offline)
		if err != nil {
			return err
		}
		store, err := newScriptStore(cfg)
		if err != nil {
			return err
		}

		script, err := store.LoadScript(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderMarkdown(out, comic.Markdown(script)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}
