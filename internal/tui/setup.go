// ABOUTME: Interactive TUI wizard for configuring the embedding provider.
// ABOUTME: Bubbletea model collecting provider, endpoint, and API key, then probing the provider.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/revibe/internal/config"
)

// Providers lists the embedding providers the wizard accepts.
var Providers = []string{"fastapi", "gemini", "openai"}

// Step represents the current wizard step.
type Step int

const (
	StepProvider Step = iota
	StepEndpoint
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for provider validation.
type ValidateFn func(ctx context.Context, ec config.EmbeddingConfig) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	base          config.EmbeddingConfig
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	inputErr      string
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with the existing embedding config.
// Fields the wizard does not ask about (model, dimension, timeout) are carried through unchanged.
func NewSetupModel(current config.EmbeddingConfig) SetupModel {
	providerInput := textinput.New()
	providerInput.Placeholder = config.DefaultProvider
	providerInput.Focus()
	providerInput.Width = 50
	if current.Provider != "" {
		providerInput.SetValue(current.Provider)
	}

	endpointInput := textinput.New()
	endpointInput.Width = 50
	if current.BaseURL != "" {
		endpointInput.SetValue(current.BaseURL)
	}

	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	if current.APIKey != "" {
		keyInput.SetValue(current.APIKey)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepProvider,
		base:       current,
		inputs:     [3]textinput.Model{providerInput, endpointInput, keyInput},
		spinner:    s,
		validateFn: ValidateProvider,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepProvider, StepEndpoint, StepAPIKey:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		idx := int(m.step)
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		return m, cmd
	}

	m.inputErr = ""
	switch m.step {
	case StepProvider:
		provider := strings.ToLower(strings.TrimSpace(m.inputs[0].Value()))
		if provider == "" {
			provider = config.DefaultProvider
		}
		if !isProvider(provider) {
			m.inputErr = fmt.Sprintf("unknown provider %q (choose %s)", provider, strings.Join(Providers, ", "))
			return m, nil
		}
		m.inputs[0].SetValue(provider)
		m.inputs[0].Blur()

		if provider == "gemini" {
			m.inputs[1].SetValue("")
			return m.focus(StepAPIKey)
		}
		m.inputs[1].Placeholder = endpointPlaceholder(provider)
		return m.focus(StepEndpoint)

	case StepEndpoint:
		val := strings.TrimRight(strings.TrimSpace(m.inputs[1].Value()), "/")
		if val == "" && m.provider() == "fastapi" {
			val = config.DefaultFastAPIURL
		}
		m.inputs[1].SetValue(val)
		m.inputs[1].Blur()

		if m.provider() == "fastapi" {
			m.inputs[2].SetValue("")
			return m.validate()
		}
		return m.focus(StepAPIKey)

	case StepAPIKey:
		if strings.TrimSpace(m.inputs[2].Value()) == "" {
			return m, nil
		}
		m.inputs[2].Blur()
		return m.validate()
	}
	return m, nil
}

func (m SetupModel) focus(step Step) (tea.Model, tea.Cmd) {
	m.step = step
	m.inputs[int(step)].Focus()
	return m, textinput.Blink
}

func (m SetupModel) validate() (tea.Model, tea.Cmd) {
	m.step = StepValidating
	return m, tea.Batch(m.startValidation(), m.spinner.Tick)
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.validationErr = nil
			return m.validate()
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	ec := m.Result()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, ec)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   REVIBE"))
	b.WriteString(titleStyle.Render(" - Embedding setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where reflection embeddings are computed.\n\n")

	switch m.step {
	case StepProvider:
		b.WriteString(stepStyle.Render("Step 1 of 3: Provider"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(%s; press Enter for %s)", strings.Join(Providers, ", "), config.DefaultProvider)))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString(errorStyle.Render(m.inputErr))
			b.WriteString("\n")
		}

	case StepEndpoint:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Endpoint"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  Provider: %s\n", m.provider()))
		if m.inputs[1].Value() != "" {
			b.WriteString(fmt.Sprintf("  Endpoint: %s\n", m.inputs[1].Value()))
		}
		b.WriteString("\n")
		b.WriteString(stepStyle.Render("Step 3 of 3: API Key"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Provider: %s\n", m.provider()))
		if m.inputs[1].Value() != "" {
			b.WriteString(fmt.Sprintf("  Endpoint: %s\n", m.inputs[1].Value()))
		}
		if m.inputs[2].Value() != "" {
			b.WriteString(fmt.Sprintf("  API Key: %s\n", strings.Repeat("*", len(m.inputs[2].Value()))))
		}
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Requesting a test embedding...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Provider ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the base config with the entered provider, endpoint, and key.
func (m SetupModel) Result() config.EmbeddingConfig {
	ec := m.base
	ec.Provider = m.provider()
	ec.BaseURL = m.inputs[1].Value()
	ec.APIKey = m.inputs[2].Value()
	return ec
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

func (m SetupModel) provider() string {
	return m.inputs[0].Value()
}

func isProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

func endpointPlaceholder(provider string) string {
	if provider == "openai" {
		return "https://api.openai.com/v1 (or any compatible server)"
	}
	return config.DefaultFastAPIURL
}
