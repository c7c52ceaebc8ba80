package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/scicalc"
	"github.com/zephyrtronium/scicalc/internal/config"
	"github.com/zephyrtronium/scicalc/session"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errs)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalArgs(t *testing.T) {
	out, err := run(t, "", "eval", "2+3×4", "1234×1000", "sin(90", "--angle", "deg")
	require.NoError(t, err)
	assert.Equal(t, "14\n1,234,000\n1\n", out)
}

func TestEvalFailures(t *testing.T) {
	out, err := run(t, "", "eval", "1÷0", "2+", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 calculations failed")
	assert.Equal(t, "Division by zero\nSyntax error\n5\n", out)
}

func TestEvalStdin(t *testing.T) {
	out, err := run(t, "1÷3\n\n2^10\n", "eval", "--precision", "3")
	require.NoError(t, err)
	assert.Equal(t, "0.333\n1,024\n", out)
}

func TestEvalEcho(t *testing.T) {
	out, err := run(t, "", "eval", "--echo", "2(3+4")
	require.NoError(t, err)
	assert.Equal(t, "2*(3+4) : 14\n", out)
}

func TestEvalJSON(t *testing.T) {
	out, err := run(t, "", "eval", "-o", "json", "6×7", "ln(0)")
	require.Error(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "6×7", recs[0]["calculation"])
	assert.Equal(t, "42", recs[0]["result"])
	assert.NotEmpty(t, recs[0]["id"])
	assert.Equal(t, "-∞", recs[1]["error"])
	assert.Equal(t, "is_infinity", recs[1]["kind"])
}

func TestEvalYAML(t *testing.T) {
	out, err := run(t, "", "eval", "-o", "yaml", "6×7")
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "42", recs[0]["result"])
	assert.Equal(t, "6×7", recs[0]["calculation"])
}

func TestEvalConfigFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "calc.toml")
	require.NoError(t, os.WriteFile(p, []byte("locale = \"de\"\nprecision = 2\n"), 0o600))
	out, err := run(t, "", "eval", "--config", p, "1234,5÷3")
	require.NoError(t, err)
	assert.Equal(t, "411,5\n", out)

	out, err = run(t, "", "eval", "--config", p, "--precision", "4", "2÷3")
	require.NoError(t, err)
	assert.Equal(t, "0,6667\n", out)
}

func TestEvalInverse(t *testing.T) {
	out, err := run(t, "", "eval", "--inverse", "--angle", "deg", "sin(1)")
	require.NoError(t, err)
	assert.Equal(t, "90\n", out)
}

func TestEvalBadFlags(t *testing.T) {
	_, err := run(t, "", "eval", "--angle", "grad", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	_, err = run(t, "", "eval", "-o", "xml", "1")
	require.Error(t, err)
}

func TestEvaluateRecords(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	recs := evaluate([]string{"2π", "(-4)^0.5"}, config.Default(), discard(), func() time.Time { return now })
	require.Len(t, recs, 2)
	assert.Equal(t, "6.2831853072", recs[0].Result)
	assert.Equal(t, now, recs[0].Timestamp)
	assert.Empty(t, recs[0].Error)
	assert.Equal(t, "Requires real number", recs[1].Error)
	assert.Equal(t, "require_real_number", recs[1].Kind)
	assert.NotEqual(t, recs[0].ID, recs[1].ID)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func keys(m *replModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestReplTyping(t *testing.T) {
	m := newReplModel(session.New(scicalc.DefaultContext()))
	keys(m, "1234+1")
	assert.Equal(t, "1,234+1", m.input.Value())
	assert.Equal(t, "1,235", m.preview)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "1,235", m.input.Value())
	assert.Empty(t, m.preview)
	require.Len(t, m.s.History(), 1)
	assert.Contains(t, m.View(), "1,234+1 = 1,235")

	keys(m, "7")
	assert.Equal(t, "7", m.input.Value(), "new operand after a commit")

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, m.input.Value())
}

func TestReplError(t *testing.T) {
	m := newReplModel(session.New(scicalc.DefaultContext()))
	keys(m, "1÷0")
	assert.Empty(t, m.preview)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Division by zero", m.msg)
	assert.Equal(t, "1÷0", m.input.Value())
	assert.Contains(t, m.View(), "Division by zero")
	assert.Empty(t, m.s.History())
}

func TestReplAngleAndFunctions(t *testing.T) {
	m := newReplModel(session.New(scicalc.DefaultContext()))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}, Alt: true})
	keys(m, "90")
	assert.Equal(t, "sin(90", m.input.Value())
	assert.Equal(t, "0.8939966636", m.preview)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, scicalc.Degrees, m.s.Context().Angle)
	assert.Equal(t, "1", m.preview)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}, Alt: true})
	assert.Equal(t, "sin(90ln(", m.input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}, Alt: true})
	assert.True(t, m.s.Context().Inverse)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}, Alt: true})
	keys(m, "0.5")
	assert.Equal(t, "cos⁻¹(0.5", m.input.Value())
	assert.Equal(t, "60", m.preview)
	assert.Contains(t, m.View(), "deg inv")
}

func TestReplQuit(t *testing.T) {
	m := newReplModel(session.New(scicalc.DefaultContext()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
