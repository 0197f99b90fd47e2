package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/cardapi"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/form"
	"github.com/matzehuels/cardforge/pkg/media"
	"github.com/matzehuels/cardforge/pkg/placement"
	"github.com/matzehuels/cardforge/pkg/progress"
)

// Preview geometry. Each terminal cell stands for cellWidth×cellHeight
// virtual pixels, which keeps the preview close to the card's aspect ratio.
const (
	previewCols = 64
	previewRows = 20
	cellWidth   = 8.0
	cellHeight  = 16.0

	// Screen position of the first preview cell: title, step bar, blank
	// line and the top border come first.
	previewTop  = 4
	previewLeft = 1

	scaleStep = 5
)

// cardClient is the part of the card service the wizard talks to.
type cardClient interface {
	GenerateCard(ctx context.Context, req cardapi.CardRequest) (*cardapi.Card, error)
	ImprovePrompt(ctx context.Context, prompt string, refresh bool) (string, error)
}

// wizardCommand creates the wizard command for interactive design.
func (c *CLI) wizardCommand() *cobra.Command {
	var (
		logo    string
		out     string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Design a card interactively in the terminal",
		Long: `Design a card interactively in the terminal.

The wizard walks through three steps: choose a logo, describe or upload a
background, and place the logo by dragging it with the mouse (or with the
arrow keys). The composed card is saved to --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWizard(cmd.Context(), logo, out, logFile)
		},
	}

	cmd.Flags().StringVarP(&logo, "logo", "l", "", "preload a logo image")
	cmd.Flags().StringVarP(&out, "output", "o", defaultOutput, "file the composed card is saved to")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the wizard runs")

	return cmd
}

// runWizard runs the interactive program until the user quits.
func (c *CLI) runWizard(ctx context.Context, logo, out, logFile string) error {
	logger, closeLog, err := wizardLogger(logFile, c.Logger.GetLevel())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()
	c.Logger = logger

	client, err := c.newClient(false)
	if err != nil {
		return err
	}

	m := newWizardModel(ctx, client, logger, out)
	if err := m.form.SetStyle(c.Config.Card.Style); err != nil {
		return err
	}
	if logo != "" {
		if err := m.loadLogo(logo); err != nil {
			return err
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	if fm, ok := final.(*wizardModel); ok && fm.saved != "" {
		printSuccess("Card saved")
		printFile(fm.saved)
	}
	return nil
}

// =============================================================================
// Model
// =============================================================================

// previewCanvas receives the widget's frames for the view.
type previewCanvas struct {
	frame   placement.Frame
	renders int
}

func (p *previewCanvas) Render(f placement.Frame) {
	p.frame = f
	p.renders++
}

type (
	tickMsg struct{ id int }

	cardMsg struct {
		id   int
		card *cardapi.Card
		err  error
	}

	// improvedMsg answers the improve request with the same id. The
	// original prompt detects edits made while the request was pending.
	improvedMsg struct {
		id       int
		original string
		prompt   string
		err      error
	}
)

// wizardModel is the bubbletea model of the wizard.
type wizardModel struct {
	ctx    context.Context
	client cardClient
	logger *log.Logger
	form   *form.Form
	canvas *previewCanvas
	keys   wizardKeyMap
	out    string

	logoPath textinput.Model
	prompt   textinput.Model
	bgPath   textinput.Model

	notice string
	err    string

	submission int // id of the latest submission; older messages are stale
	cancel     context.CancelFunc
	percent    int

	improveID int // id of the latest improve request
	improving bool

	saved    string
	quitting bool
}

func newWizardModel(ctx context.Context, client cardClient, logger *log.Logger, out string) *wizardModel {
	canvas := &previewCanvas{}
	container := placement.FixedContainer{Width: previewCols * cellWidth, Height: previewRows * cellHeight}
	m := &wizardModel{
		ctx:      ctx,
		client:   client,
		logger:   logger,
		form:     form.New(placement.New(container, canvas)),
		canvas:   canvas,
		keys:     newWizardKeyMap(),
		out:      out,
		logoPath: newTextInput("path/to/logo.png", 0),
		prompt:   newTextInput("describe the background", apperr.MaxPromptLength),
		bgPath:   newTextInput("path/to/background.jpg", 0),
	}
	m.focus()
	return m
}

func newTextInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Cursor.Style = cursorStyle
	return in
}

func (m *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, tea.Batch(cmd, m.focus())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tickMsg:
		return m, m.handleTick(msg)
	case cardMsg:
		m.handleCard(msg)
	case improvedMsg:
		m.handleImproved(msg)
	default:
		// Cursor blinks go to the focused field.
		if in := m.activeInput(); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// activeInput returns the text field the current step edits, or nil.
func (m *wizardModel) activeInput() *textinput.Model {
	if m.form.Submitting() {
		return nil
	}
	switch m.form.Step() {
	case form.StepLogo:
		return &m.logoPath
	case form.StepBackground:
		if m.form.Mode() == cardapi.ModeGenerate {
			return &m.prompt
		}
		return &m.bgPath
	}
	return nil
}

// focus moves the cursor to the active field.
func (m *wizardModel) focus() tea.Cmd {
	active := m.activeInput()
	var cmd tea.Cmd
	for _, in := range []*textinput.Model{&m.logoPath, &m.prompt, &m.bgPath} {
		switch {
		case in == active && !in.Focused():
			cmd = in.Focus()
		case in != active && in.Focused():
			in.Blur()
		}
	}
	return cmd
}

// edit passes a key to the active field.
func (m *wizardModel) edit(msg tea.KeyMsg) tea.Cmd {
	in := m.activeInput()
	if in == nil {
		return nil
	}
	if !in.Focused() {
		in.Focus()
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in == &m.prompt {
		m.form.SetPrompt(m.prompt.Value())
	}
	return cmd
}

// =============================================================================
// Keyboard
// =============================================================================

func (m *wizardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.cancelSubmission()
		m.quitting = true
		return tea.Quit
	}
	if m.form.Submitting() {
		if key.Matches(msg, m.keys.Cancel) {
			m.cancelSubmission()
		}
		return nil
	}

	m.err = ""
	switch m.form.Step() {
	case form.StepLogo:
		return m.keyLogo(msg)
	case form.StepBackground:
		return m.keyBackground(msg)
	case form.StepPlacement:
		return m.keyPlacement(msg)
	case form.StepResult:
		return m.keyResult(msg)
	}
	return nil
}

func (m *wizardModel) keyLogo(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Exit):
		if m.logoPath.Value() != "" {
			m.logoPath.Reset()
			return nil
		}
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Remove):
		if m.form.Logo() != nil {
			m.form.RemoveLogo()
			m.notice = "Logo removed"
		}
		return nil
	case key.Matches(msg, m.keys.Next):
		if strings.TrimSpace(m.logoPath.Value()) != "" {
			if err := m.loadLogo(m.logoPath.Value()); err != nil {
				m.err = errorMessage(err)
				return nil
			}
		}
		m.next()
		return nil
	}
	return m.edit(msg)
}

func (m *wizardModel) keyBackground(msg tea.KeyMsg) tea.Cmd {
	generating := m.form.Mode() == cardapi.ModeGenerate
	switch {
	case key.Matches(msg, m.keys.Back):
		m.bgPath.Reset()
		m.notice = ""
		m.form.Back()
		return nil
	case key.Matches(msg, m.keys.ToggleMode):
		m.form.ToggleMode()
		m.bgPath.Reset()
		return nil
	case key.Matches(msg, m.keys.CycleStyle):
		if generating {
			m.form.CycleStyle()
		}
		return nil
	case key.Matches(msg, m.keys.Improve):
		if generating {
			return m.improvePrompt()
		}
		return nil
	case key.Matches(msg, m.keys.Remove):
		if !generating && m.form.Background() != nil {
			m.form.RemoveBackground()
			m.notice = "Background removed"
		}
		return nil
	case key.Matches(msg, m.keys.Next):
		if !generating && strings.TrimSpace(m.bgPath.Value()) != "" {
			if err := m.loadBackground(m.bgPath.Value()); err != nil {
				m.err = errorMessage(err)
				return nil
			}
		}
		m.next()
		return nil
	}
	return m.edit(msg)
}

func (m *wizardModel) keyPlacement(msg tea.KeyMsg) tea.Cmd {
	w := m.form.Widget()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.notice = ""
		m.form.Back()
	case key.Matches(msg, m.keys.Left):
		w.Nudge(-cellWidth, 0)
	case key.Matches(msg, m.keys.Right):
		w.Nudge(cellWidth, 0)
	case key.Matches(msg, m.keys.Up):
		w.Nudge(0, -cellHeight)
	case key.Matches(msg, m.keys.Down):
		w.Nudge(0, cellHeight)
	case key.Matches(msg, m.keys.Grow):
		w.SetScale(w.Placement().Percent() + scaleStep)
	case key.Matches(msg, m.keys.Shrink):
		w.SetScale(w.Placement().Percent() - scaleStep)
	case key.Matches(msg, m.keys.Snap):
		w.SnapTo(placement.Anchors[int(msg.String()[0]-'1')])
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	return nil
}

func (m *wizardModel) keyResult(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Restart):
		m.restart()
	case key.Matches(msg, m.keys.Review):
		m.notice = ""
		m.form.Back()
	case key.Matches(msg, m.keys.Close):
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// =============================================================================
// Mouse
// =============================================================================

func (m *wizardModel) handleMouse(msg tea.MouseMsg) {
	if m.form.Step() != form.StepPlacement || m.form.Submitting() {
		return
	}
	w := m.form.Widget()
	px, py := previewPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		w.SetScale(w.Placement().Percent() + scaleStep)
	case msg.Button == tea.MouseButtonWheelDown:
		w.SetScale(w.Placement().Percent() - scaleStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if hitsLogo(w.Frame(), px, py) {
			w.BeginDrag(px, py)
		}
	case msg.Action == tea.MouseActionMotion:
		w.ContinueDrag(px, py)
	case msg.Action == tea.MouseActionRelease:
		w.EndDrag()
	}
}

// previewPoint maps a screen cell to the virtual pixel at its center.
func previewPoint(x, y int) (float64, float64) {
	return float64(x-previewLeft)*cellWidth + cellWidth/2,
		float64(y-previewTop)*cellHeight + cellHeight/2
}

// hitsLogo reports whether a pointer at (px, py) grabs the logo. The box is
// widened by half a cell so a logo smaller than one cell can be grabbed.
func hitsLogo(f placement.Frame, px, py float64) bool {
	if !f.Visible {
		return false
	}
	return px >= f.Left-cellWidth/2 && px <= f.Right()+cellWidth/2 &&
		py >= f.Top-cellHeight/2 && py <= f.Bottom()+cellHeight/2
}

// =============================================================================
// Actions
// =============================================================================

func (m *wizardModel) loadLogo(path string) error {
	img, err := media.Load(expandPath(path), media.RoleLogo)
	if err != nil {
		return err
	}
	if err := m.form.SetLogo(img); err != nil {
		return err
	}
	m.logoPath.Reset()
	m.notice = fmt.Sprintf("Loaded %s (%d×%d)", img.Name, img.Width, img.Height)
	m.logger.Info("Loaded logo", "file", img.Name, "type", img.ContentType)
	return nil
}

func (m *wizardModel) loadBackground(path string) error {
	img, err := media.Load(expandPath(path), media.RoleBackground)
	if err != nil {
		return err
	}
	if err := m.form.SetBackground(img); err != nil {
		return err
	}
	m.bgPath.Reset()
	m.notice = fmt.Sprintf("Loaded %s (%d×%d)", img.Name, img.Width, img.Height)
	m.logger.Info("Loaded background", "file", img.Name, "type", img.ContentType)
	return nil
}

func (m *wizardModel) next() {
	if err := m.form.Next(); err != nil {
		m.err = errorMessage(err)
		return
	}
	m.notice = ""
}

func (m *wizardModel) improvePrompt() tea.Cmd {
	if m.improving {
		return nil
	}
	prompt := m.form.Prompt()
	if err := apperr.ValidatePrompt(prompt); err != nil {
		m.err = errorMessage(err)
		return nil
	}
	m.improveID++
	m.improving = true
	m.notice = "Improving prompt..."

	id, ctx, client := m.improveID, m.ctx, m.client
	return func() tea.Msg {
		improved, err := client.ImprovePrompt(ctx, prompt, false)
		return improvedMsg{id: id, original: prompt, prompt: improved, err: err}
	}
}

// handleImproved applies an improved prompt unless the wizard restarted or
// the prompt was edited since the request.
func (m *wizardModel) handleImproved(msg improvedMsg) {
	if msg.id != m.improveID || !m.improving {
		return
	}
	m.improving = false
	if msg.err != nil {
		m.err = errorMessage(msg.err)
		m.notice = ""
		return
	}
	if m.form.Prompt() != msg.original {
		m.notice = "Prompt edited; improvement discarded"
		return
	}
	m.prompt.SetValue(msg.prompt)
	m.form.SetPrompt(msg.prompt)
	m.notice = "Prompt improved"
}

// submit starts a submission and its progress ticks.
func (m *wizardModel) submit() tea.Cmd {
	req, err := m.form.BeginSubmit()
	if err != nil {
		m.err = errorMessage(err)
		return nil
	}

	m.submission++
	id := m.submission
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.percent = 0
	m.notice = ""
	m.logger.Info("Submitting card", "submission", id, "mode", req.Mode)

	client := m.client
	return tea.Batch(progressTick(id), func() tea.Msg {
		card, err := client.GenerateCard(ctx, req)
		return cardMsg{id: id, card: card, err: err}
	})
}

func progressTick(id int) tea.Cmd {
	return tea.Tick(progress.Interval, func(time.Time) tea.Msg { return tickMsg{id: id} })
}

func (m *wizardModel) handleTick(msg tickMsg) tea.Cmd {
	if msg.id != m.submission || !m.form.Submitting() {
		return nil
	}
	m.percent = progress.Next(m.percent)
	if m.percent >= progress.Ceiling {
		return nil
	}
	return progressTick(msg.id)
}

func (m *wizardModel) handleCard(msg cardMsg) {
	if msg.id != m.submission {
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.form.FinishSubmit(msg.card, msg.err)

	if msg.err != nil {
		m.percent = 0
		if errors.Is(msg.err, context.Canceled) {
			m.notice = "Generation cancelled"
			return
		}
		m.err = errorMessage(msg.err)
		m.logger.Error("Card generation failed", "submission", msg.id, "err", msg.err)
		return
	}

	m.percent = progress.Complete
	if err := os.WriteFile(m.out, msg.card.Data, 0o644); err != nil {
		m.err = fmt.Sprintf("could not save the card: %v", err)
		return
	}
	m.saved = m.out
	m.logger.Info("Saved card", "file", m.out, "bytes", len(msg.card.Data), "request_id", msg.card.RequestID)
}

func (m *wizardModel) cancelSubmission() {
	if m.cancel != nil {
		m.cancel()
	}
}

// restart clears the wizard. A submission still in flight is ignored when
// it completes.
func (m *wizardModel) restart() {
	m.cancelSubmission()
	m.cancel = nil
	m.submission++
	m.improveID++
	m.improving = false
	m.form.Restart()
	m.logoPath.Reset()
	m.prompt.Reset()
	m.bgPath.Reset()
	m.notice = ""
	m.err = ""
	m.percent = 0
	m.saved = ""
}

// expandPath strips the quotes terminals add to dropped files and expands
// a leading ~.
func expandPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
