package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/cardapi"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/form"
	"github.com/matzehuels/cardforge/pkg/media"
	"github.com/matzehuels/cardforge/pkg/placement"
)

// designOptions are the card inputs shared by generate and preview.
type designOptions struct {
	Logo       string
	Background string
	Prompt     string
	Style      string
	Position   string
	X, Y       float64
	Scale      int

	setX, setY bool
}

// bindDesignFlags registers the card input flags on cmd.
func bindDesignFlags(cmd *cobra.Command, o *designOptions) {
	cmd.Flags().StringVarP(&o.Logo, "logo", "l", "", "logo image (PNG, JPEG or SVG)")
	cmd.Flags().StringVarP(&o.Background, "background", "b", "", "background image (PNG or JPEG); selects upload mode")
	cmd.Flags().StringVarP(&o.Prompt, "prompt", "p", "", "background description; selects generate mode")
	cmd.Flags().StringVarP(&o.Style, "style", "s", "", "generation style: DEFAULT, KANDINSKY, UHD, ANIME (default from card.style)")
	cmd.Flags().StringVar(&o.Position, "position", "", "logo anchor: center, top-left, top-right, bottom-left, bottom-right")
	cmd.Flags().Float64Var(&o.X, "x", placement.DefaultCenter, "logo center x as a fraction of the card width")
	cmd.Flags().Float64Var(&o.Y, "y", placement.DefaultCenter, "logo center y as a fraction of the card height")
	cmd.Flags().IntVar(&o.Scale, "scale", int(placement.DefaultScale*placement.MaxPercent), "logo size in percent (1-100)")
	_ = cmd.MarkFlagRequired("logo")
	cmd.MarkFlagsMutuallyExclusive("background", "prompt")
	cmd.MarkFlagsMutuallyExclusive("position", "x")
	cmd.MarkFlagsMutuallyExclusive("position", "y")
}

// capture records which position flags were given explicitly.
func (o *designOptions) capture(cmd *cobra.Command) {
	o.setX = cmd.Flags().Changed("x")
	o.setY = cmd.Flags().Changed("y")
}

// buildForm loads the files named by o into a form the way the wizard would.
// The placement container is the card itself.
func (c *CLI) buildForm(o designOptions) (*form.Form, error) {
	w, h := c.cardSize()
	f := form.New(placement.New(placement.FixedContainer{Width: w, Height: h}, nil))

	logo, err := media.Load(o.Logo, media.RoleLogo)
	if err != nil {
		return nil, err
	}
	if err := f.SetLogo(logo); err != nil {
		return nil, err
	}
	c.Logger.Debug("Loaded logo", "file", logo.Name, "type", logo.ContentType, "size", fmt.Sprintf("%dx%d", logo.Width, logo.Height))

	if o.Background != "" {
		bg, err := media.Load(o.Background, media.RoleBackground)
		if err != nil {
			return nil, err
		}
		if err := f.SetMode(cardapi.ModeUpload); err != nil {
			return nil, err
		}
		if err := f.SetBackground(bg); err != nil {
			return nil, err
		}
	} else {
		style := o.Style
		if style == "" {
			style = c.Config.Card.Style
		}
		if err := f.SetStyle(style); err != nil {
			return nil, err
		}
		f.SetPrompt(o.Prompt)
	}

	if err := c.applyPlacement(f.Widget(), o); err != nil {
		return nil, err
	}
	return f, nil
}

// applyPlacement sizes the logo first so the position is clamped against
// its final footprint.
func (c *CLI) applyPlacement(w *placement.Widget, o designOptions) error {
	if o.Scale < placement.MinPercent || o.Scale > placement.MaxPercent {
		return apperr.New(apperr.ErrCodeInvalidPosition, "--scale must be between %d and %d, got %d",
			placement.MinPercent, placement.MaxPercent, o.Scale)
	}
	w.SetScale(o.Scale)

	if o.Position != "" {
		a, err := placement.ParseAnchor(o.Position)
		if err != nil {
			return err
		}
		w.SnapTo(a)
		return nil
	}
	if o.setX || o.setY {
		if err := apperr.ValidatePlacement(o.X, o.Y, 1); err != nil {
			return err
		}
		w.MoveTo(o.X, o.Y)
	}
	return nil
}

// commandLine renders o back as generate flags.
func (o designOptions) commandLine() string {
	args := []string{"-l", quoteArg(o.Logo)}
	switch {
	case o.Background != "":
		args = append(args, "-b", quoteArg(o.Background))
	case o.Prompt != "":
		args = append(args, "-p", quoteArg(o.Prompt))
	default:
		args = append(args, "-p", `"..."`)
	}
	if o.Style != "" {
		args = append(args, "-s", o.Style)
	}
	if o.Position != "" {
		args = append(args, "--position", o.Position)
	}
	if o.setX {
		args = append(args, "--x", placement.FormatValue(o.X))
	}
	if o.setY {
		args = append(args, "--y", placement.FormatValue(o.Y))
	}
	args = append(args, "--scale", strconv.Itoa(o.Scale))
	return strings.Join(args, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t'\"$") {
		return strconv.Quote(s)
	}
	return s
}
