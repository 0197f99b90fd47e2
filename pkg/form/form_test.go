package form

import (
	"errors"
	"testing"

	"github.com/matzehuels/cardforge/pkg/cardapi"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/media"
	"github.com/matzehuels/cardforge/pkg/placement"
)

func newForm() *Form {
	return New(placement.New(placement.FixedContainer{Width: 400, Height: 300}, nil))
}

func logo() *media.Image {
	return &media.Image{Name: "logo.png", ContentType: media.TypePNG, Data: []byte("png"), Width: 200, Height: 100}
}

func background() *media.Image {
	return &media.Image{Name: "bg.jpg", ContentType: media.TypeJPEG, Data: []byte("jpg"), Width: 1032, Height: 648}
}

func TestNewForm(t *testing.T) {
	f := newForm()
	if f.Step() != StepLogo || f.Mode() != cardapi.ModeGenerate || f.Style() != StyleDefault {
		t.Errorf("New() = step %s, mode %s, style %s", f.Step(), f.Mode(), f.Style())
	}
	if f.Widget().Loaded() {
		t.Error("widget loaded before any logo")
	}
}

func TestNextRequiresLogo(t *testing.T) {
	f := newForm()
	if err := f.Next(); !apperr.Is(err, apperr.ErrCodeMissingFile) {
		t.Fatalf("Next() error = %v, want MISSING_FILE", err)
	}
	if f.Step() != StepLogo {
		t.Errorf("Step() = %s after failed Next", f.Step())
	}

	f.SetLogo(logo())
	if err := f.Next(); err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if f.Step() != StepBackground {
		t.Errorf("Step() = %s, want Background", f.Step())
	}
}

func TestNextBackgroundStep(t *testing.T) {
	tests := []struct {
		name   string
		mode   cardapi.Mode
		prompt string
		bg     *media.Image
		code   apperr.Code
	}{
		{"generate blank prompt", cardapi.ModeGenerate, "   ", nil, apperr.ErrCodeMissingPrompt},
		{"generate with prompt", cardapi.ModeGenerate, "sunset", nil, ""},
		{"upload without file", cardapi.ModeUpload, "sunset", nil, apperr.ErrCodeMissingFile},
		{"upload with file", cardapi.ModeUpload, "", background(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm()
			f.SetLogo(logo())
			f.Next()
			f.SetMode(tt.mode)
			f.SetPrompt(tt.prompt)
			if tt.bg != nil {
				f.SetBackground(tt.bg)
			}

			err := f.Next()
			if tt.code == "" {
				if err != nil || f.Step() != StepPlacement {
					t.Errorf("Next() = %v, step %s", err, f.Step())
				}
				return
			}
			if !apperr.Is(err, tt.code) {
				t.Errorf("Next() error = %v, want %s", err, tt.code)
			}
			if f.Step() != StepBackground {
				t.Errorf("Step() = %s after failed Next", f.Step())
			}
		})
	}
}

func TestNextStopsAtPlacement(t *testing.T) {
	f := readyForm(t)
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	if f.Step() != StepPlacement {
		t.Errorf("Step() = %s, want Placement", f.Step())
	}
}

func TestBack(t *testing.T) {
	f := readyForm(t)
	f.Back()
	if f.Step() != StepBackground {
		t.Errorf("Step() = %s", f.Step())
	}
	f.Back()
	f.Back()
	if f.Step() != StepLogo {
		t.Errorf("Step() = %s, want Logo", f.Step())
	}
}

// readyForm returns a form at StepPlacement in generate mode.
func readyForm(t *testing.T) *Form {
	t.Helper()
	f := newForm()
	f.SetLogo(logo())
	f.SetPrompt("ocean")
	for range 2 {
		if err := f.Next(); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestSetLogoResetsPlacement(t *testing.T) {
	f := readyForm(t)
	f.Widget().SetScale(100)
	f.Widget().MoveTo(0.2, 0.2)

	f.SetLogo(logo())
	if got := f.Widget().Placement(); got != placement.Default() {
		t.Errorf("Placement() = %+v after new logo, want defaults", got)
	}
	if err := f.SetLogo(nil); !apperr.Is(err, apperr.ErrCodeMissingFile) {
		t.Errorf("SetLogo(nil) error = %v", err)
	}
}

func TestRemoveLogo(t *testing.T) {
	f := readyForm(t)
	f.Widget().MoveTo(0.2, 0.3)
	f.RemoveLogo()

	if f.Logo() != nil || f.Widget().Loaded() {
		t.Error("logo still present after RemoveLogo")
	}
	if got := f.Widget().Placement(); got != placement.Default() {
		t.Errorf("Placement() = %+v, want defaults", got)
	}
	if _, err := f.Request(); !apperr.Is(err, apperr.ErrCodeMissingFile) {
		t.Errorf("Request() error = %v, want MISSING_FILE", err)
	}
}

func TestToggleModeKeepsInputs(t *testing.T) {
	f := newForm()
	f.SetPrompt("forest")
	f.ToggleMode()
	if f.Mode() != cardapi.ModeUpload {
		t.Fatalf("Mode() = %s", f.Mode())
	}
	f.SetBackground(background())
	f.ToggleMode()
	if f.Mode() != cardapi.ModeGenerate || f.Prompt() != "forest" || f.Background() == nil {
		t.Error("toggling mode lost inputs")
	}
	if err := f.SetMode("paint"); !apperr.Is(err, apperr.ErrCodeInvalidMode) {
		t.Errorf("SetMode(paint) error = %v", err)
	}
}

func TestRequestGenerate(t *testing.T) {
	f := readyForm(t)
	f.SetStyle("uhd")
	f.Widget().SetScale(100)
	f.Widget().MoveTo(0, 0)

	req, err := f.Request()
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	if req.Mode != cardapi.ModeGenerate || req.Prompt != "ocean" || req.Style != "UHD" {
		t.Errorf("Request() = %+v", req)
	}
	if req.Background != nil {
		t.Error("background set in generate mode")
	}
	if req.Logo.Name != "logo.png" || req.Logo.ContentType != media.TypePNG {
		t.Errorf("Logo = %+v", req.Logo)
	}
	if got := req.Placement.Fields(); got["logoX"] != "0.1250" || got["logoY"] != "0.0833" || got["logoScale"] != "1.0000" {
		t.Errorf("Placement fields = %v", got)
	}
}

func TestRequestTallLogo(t *testing.T) {
	f := New(placement.New(placement.FixedContainer{Width: 1032, Height: 648}, nil))
	tall := logo()
	tall.Width, tall.Height = 10, 200
	if err := f.SetLogo(tall); err != nil {
		t.Fatal(err)
	}
	f.SetPrompt("ocean")

	req, err := f.Request()
	if err != nil {
		t.Fatalf("Request() with a tall logo error: %v", err)
	}
	if req.Placement != placement.Default() {
		t.Errorf("Placement = %+v, want %+v", req.Placement, placement.Default())
	}

	f.Widget().SnapTo(placement.AnchorBottomRight)
	if _, err := f.Request(); err != nil {
		t.Errorf("Request() after snapping a tall logo error: %v", err)
	}
}

func TestRequestUpload(t *testing.T) {
	f := readyForm(t)
	f.SetMode(cardapi.ModeUpload)
	if _, err := f.Request(); !apperr.Is(err, apperr.ErrCodeMissingFile) {
		t.Fatalf("Request() error = %v, want MISSING_FILE", err)
	}
	f.SetBackground(background())
	req, err := f.Request()
	if err != nil {
		t.Fatal(err)
	}
	if req.Background == nil || req.Background.Name != "bg.jpg" || req.Prompt != "" {
		t.Errorf("Request() = %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("built request does not validate: %v", err)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	f := readyForm(t)

	if _, err := f.BeginSubmit(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.BeginSubmit(); !apperr.Is(err, apperr.ErrCodeBusy) {
		t.Errorf("second BeginSubmit() error = %v, want BUSY", err)
	}

	f.FinishSubmit(nil, errors.New("boom"))
	if f.Submitting() || f.Step() != StepPlacement || f.Result() != nil {
		t.Errorf("after failure: submitting=%v step=%s", f.Submitting(), f.Step())
	}

	if _, err := f.BeginSubmit(); err != nil {
		t.Fatalf("retry BeginSubmit() error: %v", err)
	}
	card := &cardapi.Card{Data: []byte("img"), ContentType: "image/png"}
	f.FinishSubmit(card, nil)
	if f.Step() != StepResult || f.Result() != card {
		t.Errorf("after success: step=%s result=%v", f.Step(), f.Result())
	}

	f.Back()
	if f.Step() != StepPlacement || f.Logo() == nil {
		t.Error("Back from result lost state")
	}
}

func TestBeginSubmitInvalid(t *testing.T) {
	f := newForm()
	if _, err := f.BeginSubmit(); !apperr.Is(err, apperr.ErrCodeMissingFile) {
		t.Errorf("BeginSubmit() error = %v", err)
	}
	if f.Submitting() {
		t.Error("invalid submit left the form submitting")
	}
}

func TestRestart(t *testing.T) {
	f := readyForm(t)
	f.SetStyle("anime")
	f.SetBackground(background())
	f.SetMode(cardapi.ModeUpload)
	f.Widget().MoveTo(0.1, 0.1)
	f.BeginSubmit()
	f.FinishSubmit(&cardapi.Card{Data: []byte("x")}, nil)

	f.Restart()
	if f.Step() != StepLogo || f.Logo() != nil || f.Background() != nil || f.Prompt() != "" {
		t.Error("Restart() kept inputs")
	}
	if f.Mode() != cardapi.ModeGenerate || f.Style() != StyleDefault || f.Result() != nil {
		t.Errorf("Restart() mode=%s style=%s", f.Mode(), f.Style())
	}
	if f.Widget().Loaded() || f.Widget().Placement() != placement.Default() {
		t.Error("Restart() did not reset the widget")
	}
}
