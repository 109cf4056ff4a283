// ABOUTME: Unit tests for the setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions per provider.
package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/revibe/internal/config"
)

func press(t *testing.T, m SetupModel, msg tea.KeyMsg) (SetupModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(SetupModel), cmd
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	assert.Equal(t, StepProvider, m.step)
	assert.Empty(t, m.inputs[0].Value(), "provider input should start empty")
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{Provider: "openai", BaseURL: "http://llm.local/v1", APIKey: "sk-1"})
	assert.Equal(t, "openai", m.inputs[0].Value())
	assert.Equal(t, "http://llm.local/v1", m.inputs[1].Value())
	assert.Equal(t, "sk-1", m.inputs[2].Value())
}

func TestSetupModel_FastAPIFlowSkipsKey(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})

	// Empty provider falls back to the default.
	m, _ = press(t, m, enter)
	assert.Equal(t, config.DefaultProvider, m.provider())
	require.Equal(t, StepEndpoint, m.step)

	m, cmd := press(t, m, enter)
	assert.Equal(t, config.DefaultFastAPIURL, m.inputs[1].Value())
	assert.Equal(t, StepValidating, m.step, "fastapi needs no key")
	assert.NotNil(t, cmd, "expected validation cmd")
}

func TestSetupModel_GeminiFlowSkipsEndpoint(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{BaseURL: "http://stale"})
	m.inputs[0].SetValue("Gemini")

	m, _ = press(t, m, enter)
	require.Equal(t, StepAPIKey, m.step)
	assert.Equal(t, "gemini", m.provider())
	assert.Empty(t, m.inputs[1].Value(), "endpoint should be cleared for gemini")
}

func TestSetupModel_OpenAIFlow(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.inputs[0].SetValue("openai")

	m, _ = press(t, m, enter)
	require.Equal(t, StepEndpoint, m.step)

	m.inputs[1].SetValue("http://llm.local/v1/")
	m, _ = press(t, m, enter)
	assert.Equal(t, "http://llm.local/v1", m.inputs[1].Value())
	require.Equal(t, StepAPIKey, m.step)

	// Empty key does not advance.
	m, _ = press(t, m, enter)
	assert.Equal(t, StepAPIKey, m.step)

	m.inputs[2].SetValue("sk-test")
	m, _ = press(t, m, enter)
	assert.Equal(t, StepValidating, m.step)
}

func TestSetupModel_UnknownProviderBlocked(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.inputs[0].SetValue("cohere")

	m, _ = press(t, m, enter)
	assert.Equal(t, StepProvider, m.step)
	assert.Contains(t, m.View(), `unknown provider "cohere"`)
}

func TestSetupModel_ValidationSuccess(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepValidating

	updated, cmd := m.Update(validationResultMsg{err: nil})
	m = updated.(SetupModel)
	assert.Equal(t, StepDone, m.step)
	assert.NotNil(t, cmd, "expected tea.Quit cmd")
}

func TestSetupModel_ValidationFailure(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: fmt.Errorf("connection refused")})
	m = updated.(SetupModel)
	assert.Equal(t, StepFailed, m.step)
	assert.Contains(t, m.View(), "connection refused")
}

func TestSetupModel_FailedRetry(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepFailed
	m.validationErr = fmt.Errorf("boom")

	m, cmd := press(t, m, runes("r"))
	assert.Equal(t, StepValidating, m.step)
	assert.NoError(t, m.validationErr)
	assert.NotNil(t, cmd, "expected validation cmd on retry")
}

func TestSetupModel_FailedSaveAnyway(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepFailed

	m, _ = press(t, m, runes("s"))
	assert.True(t, m.ShouldSave())
}

func TestSetupModel_FailedQuit(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepFailed

	m, _ = press(t, m, runes("q"))
	assert.False(t, m.ShouldSave())
}

func TestSetupModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEscape} {
		m := NewSetupModel(config.EmbeddingConfig{})
		m, cmd := press(t, m, tea.KeyMsg{Type: key})
		assert.True(t, m.quitting, "quitting after %v", key)
		assert.NotNil(t, cmd, "tea.Quit after %v", key)
	}
}

func TestSetupModel_CtrlCDuringValidation(t *testing.T) {
	cancelled := make(chan struct{})
	m := NewSetupModel(config.EmbeddingConfig{})
	m.validateFn = func(ctx context.Context, _ config.EmbeddingConfig) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}
	m.inputs[0].SetValue("fastapi")
	m.step = StepEndpoint

	m, batchCmd := press(t, m, enter)
	require.Equal(t, StepValidating, m.step)

	// batchMsg[0] is the validation cmd, batchMsg[1] is the spinner tick.
	batchMsg := batchCmd().(tea.BatchMsg)
	go func() { _ = batchMsg[0]() }()

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("expected validation context to be cancelled")
	}
}

func TestSetupModel_ValidationPassesConfig(t *testing.T) {
	var got config.EmbeddingConfig
	m := NewSetupModel(config.EmbeddingConfig{Model: "custom-model", Dimension: 384})
	m.validateFn = func(_ context.Context, ec config.EmbeddingConfig) error {
		got = ec
		return nil
	}
	m.inputs[0].SetValue("openai")
	m.inputs[1].SetValue("http://llm.local/v1")
	m.inputs[2].SetValue("sk-test")
	m.step = StepAPIKey

	_, batchCmd := press(t, m, enter)
	batchMsg := batchCmd().(tea.BatchMsg)
	msg := batchMsg[0]()
	res, ok := msg.(validationResultMsg)
	require.True(t, ok, "got %#v", msg)
	require.NoError(t, res.err)

	assert.Equal(t, config.EmbeddingConfig{
		Provider: "openai", BaseURL: "http://llm.local/v1", APIKey: "sk-test",
		Model: "custom-model", Dimension: 384,
	}, got)
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	assert.Contains(t, m.View(), "REVIBE")
	assert.Contains(t, m.View(), "Step 1 of 3: Provider")

	m.inputs[0].SetValue("openai")
	m, _ = press(t, m, enter)
	assert.Contains(t, m.View(), "Step 2 of 3: Endpoint")

	m.step = StepValidating
	m.inputs[2].SetValue("abc")
	view := m.View()
	assert.Contains(t, view, "***")
	assert.NotContains(t, view, "abc")

	m.step = StepDone
	assert.Contains(t, m.View(), "Provider ready")
}

func TestSetupModel_ViewFailedNilError(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{})
	m.step = StepFailed
	view := m.View()
	assert.NotContains(t, view, "<nil>")
	assert.Contains(t, view, "unknown error")
}

func TestSetupModel_FullFlowWithTeaProgram(t *testing.T) {
	m := NewSetupModel(config.EmbeddingConfig{Provider: "openai", BaseURL: "http://llm.local/v1", APIKey: "sk-test"})
	m.validateFn = func(_ context.Context, _ config.EmbeddingConfig) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithoutRenderer())

	go func() {
		p.Send(enter) // provider
		p.Send(enter) // endpoint
		p.Send(enter) // key -> validates -> done -> quit
	}()

	result, err := p.Run()
	require.NoError(t, err)

	final := result.(SetupModel)
	assert.True(t, final.ShouldSave(), "step=%d quitting=%v", final.step, final.quitting)
	assert.Equal(t, "sk-test", final.Result().APIKey)
}
