package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/engine"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestKeyboardPlacesAndSwaps(t *testing.T) {
	m := New(catalog.Default(), Options{})

	// pick the second pool team and place it at rank 2
	press(m, "tab", "right", "enter")
	assert.Equal(t, interaction.PoolSelected("gigo"), m.Controller().Selection())
	press(m, "tab", "down", "enter")
	assert.Equal(t, "gigo", m.Controller().Slots()[1])
	assert.True(t, m.Controller().Selection().IsNone())

	// select rank 2, move the cursor to rank 1 and swap
	press(m, "enter")
	assert.Equal(t, interaction.RankSelected(1, "gigo"), m.Controller().Selection())
	press(m, "k", "enter")
	assert.Equal(t, "gigo", m.Controller().Slots()[0])
	assert.Equal(t, "", m.Controller().Slots()[1])
}

func TestKeyboardReturnsToPool(t *testing.T) {
	m := New(catalog.Default(), Options{})

	press(m, "tab", "enter", "tab", "enter") // apina -> rank 1
	press(m, "enter", "p")
	assert.Equal(t, engine.Slots{}, m.Controller().Slots())
	assert.Len(t, m.Controller().View().Unranked, 7)
}

func TestEscAndCategoryKeys(t *testing.T) {
	m := New(catalog.Default(), Options{})

	press(m, "tab", "enter")
	require.False(t, m.Controller().Selection().IsNone())
	press(m, "esc")
	assert.True(t, m.Controller().Selection().IsNone())

	press(m, "2")
	assert.Equal(t, catalog.Category("SOUND VOLTEX"), m.Controller().Active())
	press(m, "]")
	assert.Equal(t, catalog.Category("DanceDanceRevolution"), m.Controller().Active())
	press(m, "]")
	assert.Equal(t, catalog.Category("beatmania IIDX"), m.Controller().Active())
	press(m, "[")
	assert.Equal(t, catalog.Category("DanceDanceRevolution"), m.Controller().Active())
}

func TestRejectedClickShowsError(t *testing.T) {
	m := New(catalog.Default(), Options{})

	press(m, "enter") // empty slot, nothing selected: no-op
	assert.False(t, m.statusErr)

	press(m, "e")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.View(), export.ErrExportDisabled.Error())
}

func TestExportWritesFile(t *testing.T) {
	c := catalog.Default()
	r, err := export.NewRenderer(c, export.Options{Scale: 1})
	require.NoError(t, err)
	dir := t.TempDir()
	m := New(c, Options{Exporter: r, OutDir: dir})

	press(m, "tab", "enter")
	cmd := press(m, "e")
	require.NotNil(t, cmd)
	assert.True(t, m.Controller().Selection().IsNone(), "selection cleared before capture")

	_, cmd = m.Update(captureMsg{})
	require.NotNil(t, cmd)
	m.Update(cmd())

	path := filepath.Join(dir, "BPL_S5_PickEms_beatmania_IIDX.png")
	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, m.View(), "Saved")
}

func TestViewShowsCutoffAndHint(t *testing.T) {
	m := New(catalog.Default(), Options{})
	out := m.View()
	assert.Contains(t, out, "TOP 4 ADVANCE TO SEMIFINAL")
	assert.Contains(t, out, hints[interaction.HintIdle])
	assert.Contains(t, out, "Teams (7)")
}
