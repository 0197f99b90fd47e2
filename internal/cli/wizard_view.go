package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardforge/pkg/cardapi"
	"github.com/matzehuels/cardforge/pkg/form"
	"github.com/matzehuels/cardforge/pkg/placement"
)

var (
	stepActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepDoneStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	stepTodoStyle   = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	cursorStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	previewStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	logoCellStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	dragCellStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	cardCellStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// View renders the wizard. The first three lines are always the title, the
// step bar and a blank line so the preview starts at previewTop.
func (m *wizardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName) + StyleDim.Render(" · business card designer") + "\n")
	b.WriteString(m.stepBar() + "\n")
	b.WriteString("\n")

	switch m.form.Step() {
	case form.StepLogo:
		m.viewLogo(&b)
	case form.StepBackground:
		m.viewBackground(&b)
	case form.StepPlacement:
		m.viewPlacement(&b)
	case form.StepResult:
		m.viewResult(&b)
	}

	b.WriteString("\n")
	switch {
	case m.err != "":
		b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(m.err) + "\n")
	case m.notice != "":
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.notice + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(m.help()))
	return b.String()
}

func (m *wizardModel) stepBar() string {
	steps := []form.Step{form.StepLogo, form.StepBackground, form.StepPlacement}
	parts := make([]string, len(steps))
	current := m.form.Step()
	for i, s := range steps {
		label := fmt.Sprintf("%d %s", i+1, s)
		switch {
		case s == current:
			parts[i] = stepActiveStyle.Render(label)
		case s < current:
			parts[i] = stepDoneStyle.Render(iconSuccess + " " + s.String())
		default:
			parts[i] = stepTodoStyle.Render(label)
		}
	}
	return strings.Join(parts, StyleDim.Render(" ── "))
}

func (m *wizardModel) viewLogo(b *strings.Builder) {
	b.WriteString(StyleHighlight.Render("Company logo") + StyleDim.Render("  PNG, JPEG or SVG, up to 5 MB") + "\n\n")
	if logo := m.form.Logo(); logo != nil {
		b.WriteString(labelStyle.Render("Logo") + StyleValue.Render(fmt.Sprintf("%s (%d×%d, %s)", logo.Name, logo.Width, logo.Height, logo.ContentType)) + "\n")
	} else {
		b.WriteString(labelStyle.Render("Logo") + StyleDim.Render("none") + "\n")
	}
	b.WriteString(labelStyle.Render("File") + m.logoPath.View() + "\n")
}

func (m *wizardModel) viewBackground(b *strings.Builder) {
	generate, upload := "Generate", "Upload"
	if m.form.Mode() == cardapi.ModeGenerate {
		generate, upload = stepActiveStyle.Render("["+generate+"]"), StyleDim.Render(" "+upload+" ")
	} else {
		generate, upload = StyleDim.Render(" "+generate+" "), stepActiveStyle.Render("["+upload+"]")
	}
	b.WriteString(StyleHighlight.Render("Card background") + "  " + generate + " " + upload + "\n\n")

	if m.form.Mode() == cardapi.ModeGenerate {
		b.WriteString(labelStyle.Render("Prompt") + m.prompt.View() + "\n")
		styles := make([]string, len(form.Styles))
		for i, st := range form.Styles {
			if st == m.form.Style() {
				styles[i] = stepActiveStyle.Render(string(st))
			} else {
				styles[i] = StyleDim.Render(string(st))
			}
		}
		b.WriteString(labelStyle.Render("Style") + strings.Join(styles, "  ") + "\n")
		return
	}

	if bg := m.form.Background(); bg != nil {
		b.WriteString(labelStyle.Render("Background") + StyleValue.Render(fmt.Sprintf("%s (%d×%d)", bg.Name, bg.Width, bg.Height)) + "\n")
	} else {
		b.WriteString(labelStyle.Render("Background") + StyleDim.Render("none") + "\n")
	}
	b.WriteString(labelStyle.Render("File") + m.bgPath.View() + "\n")
}

func (m *wizardModel) viewPlacement(b *strings.Builder) {
	w := m.form.Widget()
	b.WriteString(previewStyle.Render(previewGrid(w.Frame(), w.Dragging(), m.form.Background() != nil)) + "\n")

	p := w.Placement()
	b.WriteString(placementTable(p) + "\n")
	b.WriteString(labelStyle.Render("Size") + StyleValue.Render(fmt.Sprintf("%d%%", p.Percent())) + "\n")

	if m.form.Submitting() {
		b.WriteString(styleBar.Render(renderBar(m.percent, barWidth)) + fmt.Sprintf(" %3d%% ", m.percent) + StyleDim.Render("Composing card...") + "\n")
	}
}

func (m *wizardModel) viewResult(b *strings.Builder) {
	b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + StyleSuccess.Render("Your card is ready") + "\n\n")
	if card := m.form.Result(); card != nil {
		b.WriteString(labelStyle.Render("Type") + StyleValue.Render(card.ContentType) + "\n")
		b.WriteString(labelStyle.Render("Size") + StyleValue.Render(fmt.Sprintf("%.1f KB", float64(len(card.Data))/1024)) + "\n")
	}
	if m.saved != "" {
		b.WriteString(labelStyle.Render("Saved to") + StyleValue.Render(m.saved) + "\n")
	}
	b.WriteString(placementTable(m.form.Widget().Placement()) + "\n")
}

func (m *wizardModel) help() string {
	k := m.keys
	if m.form.Submitting() {
		return helpLine(k.Cancel, k.Quit)
	}
	switch m.form.Step() {
	case form.StepLogo:
		return helpLine(k.Next, k.Remove, k.Exit)
	case form.StepBackground:
		if m.form.Mode() == cardapi.ModeGenerate {
			return helpLine(k.ToggleMode, k.CycleStyle, k.Improve, k.Next, k.Back)
		}
		return helpLine(k.ToggleMode, k.Remove, k.Next, k.Back)
	case form.StepPlacement:
		return helpLine(k.Move, k.Resize, k.Snap, k.Submit, k.Back)
	case form.StepResult:
		return helpLine(k.Restart, k.Review, k.Close)
	}
	return ""
}

// previewGrid draws the card as previewRows lines of previewCols cells with
// the logo box filled in. A cell belongs to the logo when its center lies
// inside the box; a box smaller than one cell still marks the cell holding
// its center.
func previewGrid(f placement.Frame, dragging, uploaded bool) string {
	card := "·"
	if uploaded {
		card = "░"
	}
	cardCell := cardCellStyle.Render(card)
	logoCell := logoCellStyle.Render("█")
	if dragging {
		logoCell = dragCellStyle.Render("▓")
	}

	cx, cy := -1, -1
	if f.Visible {
		cx = int((f.Left + f.Width/2) / cellWidth)
		cy = int((f.Top + f.Height/2) / cellHeight)
	}

	var b strings.Builder
	for row := 0; row < previewRows; row++ {
		if row > 0 {
			b.WriteString("\n")
		}
		py := (float64(row) + 0.5) * cellHeight
		for col := 0; col < previewCols; col++ {
			px := (float64(col) + 0.5) * cellWidth
			inside := f.Visible && px >= f.Left && px < f.Right() && py >= f.Top && py < f.Bottom()
			if inside || (col == cx && row == cy) {
				b.WriteString(logoCell)
			} else {
				b.WriteString(cardCell)
			}
		}
	}
	return b.String()
}
