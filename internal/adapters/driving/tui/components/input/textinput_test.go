package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryInput(t *testing.T) {
	in := NewQueryInput(nil)

	require.NotNil(t, in)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.NotNil(t, in.Init())
}

func TestQueryInput_Typing(t *testing.T) {
	in := NewQueryInput(nil)

	for _, r := range "heap" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "heap", in.Value())
}

func TestQueryInput_FocusAndReset(t *testing.T) {
	in := NewQueryInput(nil)
	in.SetValue("graphs")

	in.Blur()
	assert.False(t, in.Focused())
	in.Focus()
	assert.True(t, in.Focused())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestQueryInput_SetWidth(t *testing.T) {
	in := NewQueryInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 88, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestQueryInput_View(t *testing.T) {
	in := NewQueryInput(nil)
	in.SetValue("tries")

	assert.Contains(t, in.View(), "Query:")
	assert.Contains(t, in.View(), "tries")
}
