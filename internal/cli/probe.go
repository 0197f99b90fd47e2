package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/media"
	"github.com/matzehuels/cardforge/pkg/placement"
)

// probeCommand creates the probe command for checking image files.
func (c *CLI) probeCommand() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "probe [file...]",
		Short: "Check images and report their type and dimensions",
		Long: `Check images and report their type and dimensions.

Each file is validated the way the wizard validates uploads (content type and
size) and the logo footprint on the configured card is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := media.RoleLogo
			switch strings.ToLower(role) {
			case "logo":
			case "background", "bg":
				r = media.RoleBackground
			default:
				return fmt.Errorf("unknown role %q (want logo or background)", role)
			}
			var failed int
			for _, path := range args {
				if err := c.runProbe(path, r); err != nil {
					printError("%s: %s", path, errorMessage(err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files rejected", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "logo", "validate as logo or background")

	return cmd
}

// runProbe prints the facts about one file.
func (c *CLI) runProbe(path string, role media.Role) error {
	img, err := media.Load(path, role)
	if err != nil {
		return err
	}

	printSuccess("%s", StyleHighlight.Render(img.Name))
	printKeyValue("type", img.ContentType)
	printKeyValue("size", fmt.Sprintf("%d × %d px", img.Width, img.Height))
	printKeyValue("bytes", fmt.Sprintf("%d", len(img.Data)))

	if role == media.RoleLogo {
		cw, ch := c.cardSize()
		bw, bh := placement.BaseSize(cw, float64(img.Width), float64(img.Height))
		s := placement.DefaultScale
		printKeyValue("footprint", fmt.Sprintf("%.0f × %.0f px at %d%% on a %.0f × %.0f card",
			bw*s, bh*s, int(s*100), cw, ch))
		if bh > ch {
			printWarning("logo is taller than the card at 100%%; moving or resizing it pins it to the top edge")
		}
	}
	return nil
}
