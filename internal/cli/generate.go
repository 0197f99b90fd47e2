package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/cardapi"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// generateCommand creates the generate command for composing a card.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts    designOptions
		out     string
		improve bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a business card on the card service",
		Long: `Compose a business card on the card service.

The background is either generated from --prompt (optionally in a --style) or
uploaded with --background. The logo is placed with --position or --x/--y and
sized with --scale, exactly as the wizard would place it on a card of the
configured size.`,
		Example: `  cardforge generate -l logo.png -p "calm ocean at dusk" -s UHD
  cardforge generate -l logo.svg -b texture.jpg --position bottom-right --scale 30
  cardforge generate -l logo.png -p "forest" --x 0.2 --y 0.25 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.capture(cmd)
			return c.runGenerate(cmd.Context(), opts, out, improve, dryRun)
		},
	}

	bindDesignFlags(cmd, &opts)
	cmd.Flags().StringVarP(&out, "output", "o", defaultOutput, "output file")
	cmd.Flags().BoolVar(&improve, "improve", false, "improve the prompt before generating")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate inputs and print the placement without contacting the service")

	return cmd
}

// runGenerate validates the inputs, submits them and saves the card.
func (c *CLI) runGenerate(ctx context.Context, opts designOptions, out string, improve, dryRun bool) error {
	logger := loggerFromContext(ctx)

	f, err := c.buildForm(opts)
	if err != nil {
		return err
	}

	client, err := c.newClient(false)
	if err != nil {
		return err
	}

	if improve && f.Mode() == cardapi.ModeGenerate && !dryRun {
		if err := apperr.ValidatePrompt(f.Prompt()); err != nil {
			return err
		}
		improved, err := client.ImprovePrompt(ctx, f.Prompt(), false)
		if err != nil {
			return err
		}
		logger.Info("Improved prompt", "prompt", improved)
		f.SetPrompt(improved)
	}

	req, err := f.BeginSubmit()
	if err != nil {
		return err
	}

	printPlacement(req.Placement)
	if dryRun {
		printSuccess("Inputs are valid")
		printDetail("mode %s · logo %s", req.Mode, req.Logo.Name)
		return nil
	}

	t := newTimer(logger)
	bar := newProgressBar(ctx, os.Stderr, "Composing card...")
	bar.Start()
	card, err := client.GenerateCard(ctx, req)
	f.FinishSubmit(card, err)
	if err != nil {
		if bar.Cancelled() {
			bar.Stop()
			return ctx.Err()
		}
		bar.StopWithError("%s", apperr.UserMessage(err))
		if apperr.Is(err, apperr.ErrCodeContentRejected) {
			printDetail("the service flagged an upload as inappropriate; choose another image")
		}
		return err
	}

	if err := os.WriteFile(out, card.Data, 0o644); err != nil {
		bar.Stop()
		return fmt.Errorf("write %s: %w", out, err)
	}
	bar.StopWithSuccess("Card composed in %s", elapsed(time.Since(t.start)))
	printFile(out)
	if want := card.Extension(); !strings.HasSuffix(strings.ToLower(out), want) {
		printWarning("the service returned %s; consider a %s file name", card.ContentType, want)
	}
	t.done("Generated card")
	return nil
}
