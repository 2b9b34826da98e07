package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/comicscript/internal/core"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
	"github.com/vampirenirmal/comicscript/internal/phase/storyboard"
)

var splitCmd = &cobra.Command{
	Use:   "split FILE",
	Short: "Split a story into scenes without a model",
	Long: `Splits a story file ("-" for stdin) into exactly --scenes scenes by
dealing its sentences round-robin, and prints the numbered breakdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("scenes")
		if n < 1 {
			return storyboard.ErrInvalidTarget
		}

		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading story: %w", err)
		}

		scenes := storyboard.FallbackSplit(string(data), n)
		fmt.Fprintln(cmd.OutOrStdout(), comic.FormatScenes(scenes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().IntP("scenes", "n", core.DefaultSceneCount, "Number of scenes")
}
