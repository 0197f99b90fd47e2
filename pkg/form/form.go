// Package form holds the state of the card design wizard.
//
// The wizard has three input steps followed by a result view:
//
//	StepLogo -> StepBackground -> StepPlacement -> StepResult
//
// Moving forward validates the current step; moving back never does. The
// form owns a [placement.Widget] that is loaded whenever a logo is chosen
// and reset when it is removed or the wizard restarts.
package form

import (
	"github.com/matzehuels/cardforge/pkg/cardapi"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/media"
	"github.com/matzehuels/cardforge/pkg/placement"
)

// Step is a wizard page.
type Step int

const (
	StepLogo Step = iota + 1
	StepBackground
	StepPlacement
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepLogo:
		return "Logo"
	case StepBackground:
		return "Background"
	case StepPlacement:
		return "Placement"
	case StepResult:
		return "Result"
	}
	return "Unknown"
}

// Form is the wizard state. It is not safe for concurrent use.
type Form struct {
	widget *placement.Widget

	step       Step
	logo       *media.Image
	background *media.Image
	mode       cardapi.Mode
	prompt     string
	style      Style

	submitting bool
	result     *cardapi.Card
}

// New returns a form at StepLogo driving w.
func New(w *placement.Widget) *Form {
	f := &Form{widget: w}
	f.Restart()
	return f
}

// Widget returns the placement widget the form drives.
func (f *Form) Widget() *placement.Widget { return f.widget }

// Step returns the current wizard step.
func (f *Form) Step() Step { return f.step }

// Logo returns the selected logo, or nil.
func (f *Form) Logo() *media.Image { return f.logo }

// Background returns the uploaded background, or nil.
func (f *Form) Background() *media.Image { return f.background }

// Mode returns where the background comes from.
func (f *Form) Mode() cardapi.Mode { return f.mode }

// Prompt returns the background prompt as typed.
func (f *Form) Prompt() string { return f.prompt }

// Style returns the generation style.
func (f *Form) Style() Style { return f.style }

// Submitting reports whether a submission is pending.
func (f *Form) Submitting() bool { return f.submitting }

// Result returns the card of the last successful submission, or nil.
func (f *Form) Result() *cardapi.Card { return f.result }

// SetLogo selects a logo and loads it into the placement widget, which
// resets the placement.
func (f *Form) SetLogo(img *media.Image) error {
	if img == nil {
		return apperr.New(apperr.ErrCodeMissingFile, "please upload a company logo")
	}
	f.logo = img
	f.widget.LoadLogo(float64(img.Width), float64(img.Height))
	return nil
}

// RemoveLogo clears the logo and resets the placement.
func (f *Form) RemoveLogo() {
	f.logo = nil
	f.widget.Unload()
}

// SetBackground selects an uploaded background.
func (f *Form) SetBackground(img *media.Image) error {
	if img == nil {
		return apperr.New(apperr.ErrCodeMissingFile, "please upload a card background")
	}
	f.background = img
	return nil
}

// RemoveBackground clears the uploaded background.
func (f *Form) RemoveBackground() { f.background = nil }

// SetMode chooses where the background comes from. Inputs of the other
// mode are kept so toggling back restores them.
func (f *Form) SetMode(m cardapi.Mode) error {
	if m != cardapi.ModeGenerate && m != cardapi.ModeUpload {
		return apperr.New(apperr.ErrCodeInvalidMode, "unknown background mode %q", m)
	}
	f.mode = m
	return nil
}

// ToggleMode switches between generate and upload.
func (f *Form) ToggleMode() {
	if f.mode == cardapi.ModeGenerate {
		f.mode = cardapi.ModeUpload
	} else {
		f.mode = cardapi.ModeGenerate
	}
}

// SetPrompt sets the background prompt. It is validated when leaving the
// background step.
func (f *Form) SetPrompt(p string) { f.prompt = p }

// SetStyle parses and sets the generation style.
func (f *Form) SetStyle(s string) error {
	st, err := ParseStyle(s)
	if err != nil {
		return err
	}
	f.style = st
	return nil
}

// CycleStyle advances to the next style.
func (f *Form) CycleStyle() { f.style = f.style.Next() }

// Validate checks the inputs of step s.
func (f *Form) Validate(s Step) error {
	switch s {
	case StepLogo:
		if f.logo == nil {
			return apperr.New(apperr.ErrCodeMissingFile, "please upload a company logo")
		}
	case StepBackground:
		if f.mode == cardapi.ModeGenerate {
			return apperr.ValidatePrompt(f.prompt)
		}
		if f.background == nil {
			return apperr.New(apperr.ErrCodeMissingFile, "please upload a card background")
		}
	case StepPlacement:
		p := f.widget.Placement()
		return apperr.ValidatePlacement(p.CenterX, p.CenterY, p.Scale)
	}
	return nil
}

// Next validates the current step and advances to the following input
// step. The result view is only reached through FinishSubmit.
func (f *Form) Next() error {
	if f.step >= StepPlacement {
		return nil
	}
	if err := f.Validate(f.step); err != nil {
		return err
	}
	f.step++
	return nil
}

// Back returns to the previous step. From the result view it returns to
// placement with all inputs intact.
func (f *Form) Back() {
	if f.step > StepLogo {
		f.step--
	}
}

// Request validates every step and builds the service request.
func (f *Form) Request() (cardapi.CardRequest, error) {
	for _, s := range []Step{StepLogo, StepBackground, StepPlacement} {
		if err := f.Validate(s); err != nil {
			return cardapi.CardRequest{}, err
		}
	}
	req := cardapi.CardRequest{
		Logo:      toFile(f.logo),
		Mode:      f.mode,
		Placement: f.widget.Placement(),
	}
	if f.mode == cardapi.ModeGenerate {
		req.Prompt = f.prompt
		req.Style = string(f.style)
	} else {
		bg := toFile(f.background)
		req.Background = &bg
	}
	return req, nil
}

// BeginSubmit builds the request and marks the form as submitting. It fails
// with BUSY while a previous submission is pending.
func (f *Form) BeginSubmit() (cardapi.CardRequest, error) {
	if f.submitting {
		return cardapi.CardRequest{}, apperr.New(apperr.ErrCodeBusy, "a card is already being generated")
	}
	req, err := f.Request()
	if err != nil {
		return cardapi.CardRequest{}, err
	}
	f.submitting = true
	return req, nil
}

// FinishSubmit ends a pending submission. On success the result view is
// shown; on failure the form stays where it was so the user can retry.
func (f *Form) FinishSubmit(card *cardapi.Card, err error) {
	f.submitting = false
	if err != nil || card == nil {
		return
	}
	f.result = card
	f.step = StepResult
}

// Restart clears every input and returns to StepLogo.
func (f *Form) Restart() {
	f.step = StepLogo
	f.logo = nil
	f.background = nil
	f.mode = cardapi.ModeGenerate
	f.prompt = ""
	f.style = StyleDefault
	f.submitting = false
	f.result = nil
	f.widget.Reset()
}

func toFile(img *media.Image) cardapi.File {
	return cardapi.File{Name: img.Name, ContentType: img.ContentType, Data: img.Data}
}
