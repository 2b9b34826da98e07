package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vampirenirmal/comicscript/internal/approval"
	"github.com/vampirenirmal/comicscript/internal/config"
	"github.com/vampirenirmal/comicscript/internal/core"
	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

var runCmd = &cobra.Command{
	Use:   "run [IDEA...]",
	Short: "Generate a comic script, reviewing each stage",
	Long: `Generates a story, an exact-count scene breakdown, and dialogue and an
image prompt per scene. Every stage waits for approval ("yes") or a one-line
change request. The idea comes from --description, the arguments, or stdin.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("description", "d", "", "Story idea")
	runCmd.Flags().BoolP("yes", "y", false, "Approve every stage without asking")
	runCmd.Flags().Bool("mock", false, "Use the offline mock backend")
	runCmd.Flags().Int("scenes", 0, "Number of scenes (overrides config)")
	runCmd.Flags().Int("concurrency", 0, "Scenes generated in parallel per stage (overrides config)")
	runCmd.Flags().Bool("no-save", false, "Do not write the script to the output directory")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	mock, _ := cmd.Flags().GetBool("mock")
	scenes, _ := cmd.Flags().GetInt("scenes")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	autoApprove, _ := cmd.Flags().GetBool("yes")
	noSave, _ := cmd.Flags().GetBool("no-save")

	cfg, err := loadConfig(cmd, func(c *config.Config) {
		if mock {
			c.AI.Provider = config.ProviderMock
		}
		if scenes > 0 {
			c.Pipeline.SceneCount = scenes
		}
		if concurrency > 0 {
			c.Pipeline.Concurrency = concurrency
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	description, err := readDescription(cmd, args, in, out)
	if err != nil {
		return err
	}

	var reviewer approval.Reviewer = approval.AutoApprove{}
	if !autoApprove {
		var opts []approval.ConsoleOption
		if isTerminal(out) {
			if render, err := approval.MarkdownRenderer(); err == nil {
				opts = append(opts, approval.WithRenderer(render))
			}
			opts = append(opts, approval.WithHeaderStyle(approval.HeaderStyle()))
		}
		reviewer = approval.NewConsoleReviewer(in, out, opts...)
	}

	var savedDir string
	var orchOpts []core.Option
	if !noSave {
		orchOpts = append(orchOpts, core.WithSaver(core.ScriptSaverFunc(
			func(ctx context.Context, s *comic.Script) (string, error) {
				dir, err := a.store.SaveScript(ctx, s)
				savedDir = dir
				return dir, err
			})))
	}

	script, err := a.orchestrator(reviewer, orchOpts...).Run(ctx, description)
	if script == nil {
		return err
	}

	fmt.Fprintln(out, renderMarkdown(out, comic.Markdown(script)))
	if err != nil {
		return err
	}
	if savedDir != "" {
		fmt.Fprintf(out, "Saved to %s\n", filepath.Join(cfg.Paths.OutputDir, savedDir))
	}
	return nil
}

func readDescription(cmd *cobra.Command, args []string, in *bufio.Reader, out io.Writer) (string, error) {
	description, _ := cmd.Flags().GetString("description")
	if description == "" {
		description = strings.Join(args, " ")
	}
	if strings.TrimSpace(description) == "" {
		fmt.Fprint(out, "📘 Enter a short description of your comic story:\n> ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading description: %w", err)
		}
		description = line
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.New("a story idea is required")
	}
	return description, nil
}
