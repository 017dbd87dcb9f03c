package prefsform

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/edupulse/inbox/internal/inbox"
	"github.com/edupulse/inbox/internal/keys"
	"github.com/edupulse/inbox/internal/model"
	"github.com/edupulse/inbox/internal/theme"
)

// Mode is the current state of the preferences view.
type Mode int

const (
	ModeLoading Mode = iota
	ModeLoadFailed
	ModeEditing
	ModeSaving
)

// DoneMsg signals the preferences view should close.
type DoneMsg struct{}

// clearConfirmMsg dismisses the transient save confirmation.
type clearConfirmMsg struct{}

// formValues holds the values huh binds to. Kept behind a pointer so the
// bindings stay valid as Bubble Tea copies the model between updates.
type formValues struct {
	typeFlags    []bool
	channelInApp bool
	channelEmail bool
	channelPush  bool
	quietStart   string
	quietEnd     string
}

// Model is the Bubble Tea model for the notification preferences form.
type Model struct {
	mode    Mode
	prefs   *inbox.PreferencesManager
	keys    *keys.KeyMap
	form    *huh.Form
	spinner spinner.Model
	vals    *formValues

	confirmMsg string
	errMsg     string
	width      int
	height     int
}

// New creates the preferences view backed by the given manager.
func New(prefs *inbox.PreferencesManager, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeLoading,
		prefs:   prefs,
		keys:    k,
		spinner: sp,
		vals: &formValues{
			typeFlags: make([]bool, len(model.NotificationTypes)),
		},
		width:  width,
		height: height,
	}
}

// Init kicks off the preference load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.prefs.Load())
}

// Update handles messages for the preferences view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inbox.PrefsLoadedMsg:
		if msg.Err != nil {
			// No client-side defaults; offer a retry instead.
			m.mode = ModeLoadFailed
			m.errMsg = fmt.Sprintf("could not load preferences: %v", msg.Err)
			return m, nil
		}
		m.mode = ModeEditing
		m.errMsg = ""
		m.bindFromManager()
		m.form = m.buildForm()
		return m, m.form.Init()

	case inbox.PrefsSavedMsg:
		if msg.Err != nil {
			// Persistent until the next save attempt.
			m.mode = ModeEditing
			m.errMsg = fmt.Sprintf("save failed: %v", msg.Err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.mode = ModeEditing
		m.errMsg = ""
		m.confirmMsg = "Preferences saved"
		m.bindFromManager()
		m.form = m.buildForm()
		return m, tea.Batch(
			m.form.Init(),
			tea.Tick(3*time.Second, func(time.Time) tea.Msg {
				return clearConfirmMsg{}
			}),
		)

	case clearConfirmMsg:
		m.confirmMsg = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case ModeLoadFailed:
			switch {
			case key.Matches(msg, m.keys.Refresh), msg.String() == "enter":
				m.mode = ModeLoading
				return m, tea.Batch(m.spinner.Tick, m.prefs.Load())
			case key.Matches(msg, m.keys.Back):
				return m, func() tea.Msg { return DoneMsg{} }
			}
			return m, nil

		case ModeEditing:
			if key.Matches(msg, m.keys.Back) {
				return m, func() tea.Msg { return DoneMsg{} }
			}
		}
	}

	if m.mode == ModeEditing && m.form != nil {
		mdl, cmd := m.form.Update(msg)
		if f, ok := mdl.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			m.applyToManager()
			m.mode = ModeSaving
			return m, tea.Batch(m.spinner.Tick, m.prefs.Save())
		}
		if m.form.State == huh.StateAborted {
			return m, func() tea.Msg { return DoneMsg{} }
		}
		return m, cmd
	}

	return m, nil
}

// View renders the preferences view.
func (m Model) View() string {
	switch m.mode {
	case ModeLoading:
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render(m.spinner.View() + " Loading preferences…")

	case ModeLoadFailed:
		body := lipgloss.JoinVertical(
			lipgloss.Left,
			theme.ErrorStyle.Render(m.errMsg),
			"",
			theme.HelpStyle.Render("enter/R retry · esc back"),
		)
		return theme.DetailPanelStyle.Width(m.width - 4).Render(body)

	case ModeSaving:
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render(m.spinner.View() + " Saving…")
	}

	sections := []string{}
	if m.confirmMsg != "" {
		sections = append(sections, theme.ConfirmStyle.Render(m.confirmMsg))
	}
	if m.errMsg != "" {
		sections = append(sections, theme.ErrorStyle.Render(m.errMsg))
	}
	sections = append(sections, m.form.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// bindFromManager copies the manager's working object into the form
// fields.
func (m *Model) bindFromManager() {
	prefs, ok := m.prefs.Current()
	if !ok {
		return
	}

	for i, t := range model.NotificationTypes {
		m.vals.typeFlags[i] = *prefs.Flag(string(t))
	}
	m.vals.channelInApp = prefs.Channels.InApp
	m.vals.channelEmail = prefs.Channels.Email
	m.vals.channelPush = prefs.Channels.Push

	m.vals.quietStart = ""
	if prefs.QuietHoursStart != nil {
		m.vals.quietStart = *prefs.QuietHoursStart
	}
	m.vals.quietEnd = ""
	if prefs.QuietHoursEnd != nil {
		m.vals.quietEnd = *prefs.QuietHoursEnd
	}
}

// applyToManager pushes the form field values back into the manager as
// batched local edits. Save sends them in one request.
func (m *Model) applyToManager() {
	prefs, ok := m.prefs.Current()
	if !ok {
		return
	}

	for i, t := range model.NotificationTypes {
		if *prefs.Flag(string(t)) != m.vals.typeFlags[i] {
			m.prefs.Toggle(string(t))
		}
	}
	if prefs.Channels.InApp != m.vals.channelInApp {
		m.prefs.Toggle(model.FlagChannelInApp)
	}
	if prefs.Channels.Email != m.vals.channelEmail {
		m.prefs.Toggle(model.FlagChannelEmail)
	}
	if prefs.Channels.Push != m.vals.channelPush {
		m.prefs.Toggle(model.FlagChannelPush)
	}

	// The form validator keeps malformed input out; the manager rejects
	// anything that slips through, leaving the prior value in place.
	m.prefs.SetQuietHour(model.QuietHourStart, m.vals.quietStart)
	m.prefs.SetQuietHour(model.QuietHourEnd, m.vals.quietEnd)
}

// buildForm constructs the huh form for the current field values.
func (m *Model) buildForm() *huh.Form {
	typeFields := make([]huh.Field, 0, len(model.NotificationTypes))
	for i, t := range model.NotificationTypes {
		typeFields = append(typeFields, huh.NewConfirm().
			Title(string(t)).
			Value(&m.vals.typeFlags[i]))
	}

	width := m.width - 4
	if width > 64 {
		width = 64
	}

	return huh.NewForm(
		huh.NewGroup(typeFields...).
			Title("Notification types"),
		huh.NewGroup(
			huh.NewConfirm().Title("In-app").Value(&m.vals.channelInApp),
			huh.NewConfirm().Title("Email").Value(&m.vals.channelEmail),
			huh.NewConfirm().Title("Push").Value(&m.vals.channelPush),
		).Title("Channels"),
		huh.NewGroup(
			huh.NewInput().
				Title("Quiet hours start").
				Description("24-hour HH:MM, empty to clear").
				Placeholder("22:00").
				Value(&m.vals.quietStart).
				Validate(validateQuietHour),
			huh.NewInput().
				Title("Quiet hours end").
				Description("24-hour HH:MM, empty to clear").
				Placeholder("08:00").
				Value(&m.vals.quietEnd).
				Validate(validateQuietHour),
		).Title("Quiet hours"),
	).WithWidth(width)
}

// validateQuietHour accepts an empty string (clears the bound) or a
// well-formed HH:MM value.
func validateQuietHour(s string) error {
	if s == "" {
		return nil
	}
	if !model.ValidQuietHour(s) {
		return fmt.Errorf("use 24-hour HH:MM")
	}
	return nil
}
