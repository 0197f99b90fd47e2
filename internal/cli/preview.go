package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/media"
)

// previewCommand creates the preview command for local placement previews.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		opts designOptions
		out  string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a local preview of a logo placement",
		Long: `Render a local preview of a logo placement.

The logo is overlaid on the uploaded background, or on a plain card when the
background would be generated, using the same geometry as the card service.
Nothing is sent over the network. SVG logos cannot be previewed locally.`,
		Example: `  cardforge preview -l logo.png -b texture.jpg --position top-left --scale 40`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.capture(cmd)
			return c.runPreview(cmd.Context(), opts, out)
		},
	}

	bindDesignFlags(cmd, &opts)
	cmd.Flags().StringVarP(&out, "output", "o", "card-preview.png", "output file")

	return cmd
}

// runPreview composes the preview image and writes it as PNG.
func (c *CLI) runPreview(ctx context.Context, opts designOptions, out string) error {
	f, err := c.buildForm(opts)
	if err != nil {
		return err
	}

	logo, err := f.Logo().Decode()
	if err != nil {
		return err
	}
	var bg image.Image
	if f.Background() != nil {
		if bg, err = f.Background().Decode(); err != nil {
			return err
		}
	}

	p := f.Widget().Placement()
	img := media.ComposePreview(bg, logo, p, c.Config.Card.Width, c.Config.Card.Height)

	var buf bytes.Buffer
	if err := media.EncodePNG(&buf, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	loggerFromContext(ctx).Debug("Wrote preview", "file", out, "bytes", buf.Len())
	printPlacement(p)
	printSuccess("Preview rendered")
	printFile(out)
	printNextStep("Send it to the card service", "cardforge generate "+opts.commandLine())
	return nil
}
