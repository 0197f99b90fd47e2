package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// improveCommand creates the improve command for rewriting a prompt.
func (c *CLI) improveCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "improve [prompt]",
		Short: "Rewrite a background prompt for better generation",
		Long: `Rewrite a background prompt for better generation.

The prompt is taken from the arguments, or from stdin when none are given.
Improved prompts are cached; use --refresh to ask the service again.`,
		Example: `  cardforge improve "blue waves"
  echo "mountains at night" | cardforge improve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := readAllLimited(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				prompt = data
			}
			return c.runImprove(cmd.Context(), prompt, refresh, noCache)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore a cached result")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runImprove asks the service for a better prompt and prints it.
func (c *CLI) runImprove(ctx context.Context, prompt string, refresh, noCache bool) error {
	client, err := c.newClient(noCache)
	if err != nil {
		return err
	}

	t := newTimer(loggerFromContext(ctx))
	bar := newProgressBar(ctx, os.Stderr, "Improving prompt...")
	bar.Start()
	improved, err := client.ImprovePrompt(ctx, prompt, refresh)
	bar.Stop()
	if err != nil {
		return err
	}
	t.done("Improved prompt")

	fmt.Fprintln(output, improved)
	return nil
}

// maxStdinPrompt bounds how much of stdin is read as a prompt.
const maxStdinPrompt = 64 << 10

func readAllLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinPrompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
