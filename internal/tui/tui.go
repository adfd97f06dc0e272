// Package tui is a terminal rendition of the Pick'Ems board. Keys stand in for
// taps: Enter clicks whatever the cursor is on.
package tui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bpl-pickems/internal/board"
	"github.com/DoyleJ11/bpl-pickems/internal/catalog"
	"github.com/DoyleJ11/bpl-pickems/internal/export"
	"github.com/DoyleJ11/bpl-pickems/internal/interaction"
)

type zone int

const (
	zoneSlots zone = iota
	zonePool
)

var hints = map[interaction.Hint]string{
	interaction.HintIdle:         "Pick a team from the pool, or a ranked team to move it.",
	interaction.HintChooseRank:   "Choose a rank for the selected team.",
	interaction.HintChooseTarget: "Choose another rank to swap, or the pool to remove.",
}

type Options struct {
	// Exporter writes the active board to OutDir on "e"; nil disables export.
	Exporter    board.Exporter
	OutDir      string
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// Model is the Bubble Tea model for one local board.
type Model struct {
	ctrl   *interaction.Controller
	opts   Options
	logger *zap.Logger

	zone      zone
	slotIdx   int
	poolIdx   int
	status    string
	statusErr bool
	exporting bool
	quitting  bool
}

// captureMsg fires once the selection highlight is gone from the screen.
type captureMsg struct{}

type exportDoneMsg struct {
	path string
	err  error
}

func New(c *catalog.Catalog, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Model{
		ctrl:   interaction.NewController(c, opts.Logger),
		opts:   opts,
		logger: opts.Logger.Named("tui"),
	}
}

func (m *Model) Controller() *interaction.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case captureMsg:
		return m, m.capture()

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.logger.Error("export failed", zap.Error(msg.err))
			m.setError(errors.New("画像の保存に失敗しました。"))
			break
		}
		m.setStatus("Saved " + msg.path)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "tab":
		if m.zone == zoneSlots {
			m.zone = zonePool
		} else {
			m.zone = zoneSlots
		}
	case "up", "k":
		if m.zone == zoneSlots && m.slotIdx > 0 {
			m.slotIdx--
		}
	case "down", "j":
		if m.zone == zoneSlots && m.slotIdx < catalog.SlotCount-1 {
			m.slotIdx++
		}
	case "left", "h":
		if m.zone == zonePool && m.poolIdx > 0 {
			m.poolIdx--
		}
	case "right", "l":
		if m.zone == zonePool {
			m.poolIdx++
			m.clampPool()
		}
	case "enter", " ":
		m.click()
	case "p":
		m.apply(m.ctrl.ClickPoolArea())
	case "esc":
		m.ctrl.ClearSelection()
		m.setStatus("")
	case "[", "]":
		m.cycleCategory(msg.String() == "]")
	case "e":
		return m.startExport()
	default:
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			cats := m.ctrl.Catalog().Categories
			if i := int(k[0] - '1'); i < len(cats) {
				m.apply(m.ctrl.SwitchCategory(cats[i]))
			}
		}
	}
	return nil
}

// click acts on whatever the cursor is on, the same way a tap would.
func (m *Model) click() {
	if m.zone == zoneSlots {
		m.apply(m.ctrl.ClickRank(m.slotIdx))
		return
	}
	pool := m.ctrl.View().Unranked
	if len(pool) == 0 {
		m.apply(m.ctrl.ClickPoolArea())
		return
	}
	m.apply(m.ctrl.ClickPoolTeam(pool[m.poolIdx].ID))
}

func (m *Model) cycleCategory(forward bool) {
	cats := m.ctrl.Catalog().Categories
	cur := 0
	for i, c := range cats {
		if c == m.ctrl.Active() {
			cur = i
		}
	}
	step := len(cats) - 1
	if forward {
		step = 1
	}
	m.apply(m.ctrl.SwitchCategory(cats[(cur+step)%len(cats)]))
}

func (m *Model) apply(err error) {
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("")
	m.clampPool()
}

func (m *Model) clampPool() {
	n := len(m.ctrl.View().Unranked)
	if m.poolIdx >= n {
		m.poolIdx = max(n-1, 0)
	}
}

func (m *Model) startExport() tea.Cmd {
	if m.opts.Exporter == nil {
		m.setError(export.ErrExportDisabled)
		return nil
	}
	if m.exporting {
		return nil
	}
	m.exporting = true
	m.ctrl.ClearSelection()
	m.setStatus("Saving image...")
	return tea.Tick(m.opts.SettleDelay, func(time.Time) tea.Msg { return captureMsg{} })
}

func (m *Model) capture() tea.Cmd {
	view := m.ctrl.View()
	exp := m.opts.Exporter
	path := filepath.Join(m.opts.OutDir, exp.FileName(view.Active))
	b := export.Board{Category: view.Active, Ranked: view.Ranked}

	return func() tea.Msg {
		var buf bytes.Buffer
		if err := exp.Export(&buf, b); err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return exportDoneMsg{err: fmt.Errorf("%w: %v", export.ErrExportFailed, err)}
		}
		return exportDoneMsg{path: path}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	c := m.ctrl.Catalog()
	view := m.ctrl.View()

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(c.Title+" Pick'Ems") + "\n\n")

	tabs := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		label := fmt.Sprintf("%d %s", i+1, cat)
		if cat == view.Active {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = TabStyle.Render(label)
		}
	}
	sb.WriteString(strings.Join(tabs, " ") + "\n\n")

	for i, team := range view.Ranked {
		if i == c.Cutoff && c.Cutoff > 0 {
			sb.WriteString(CutoffStyle.Render(fmt.Sprintf("    ── TOP %d ADVANCE TO SEMIFINAL ──", c.Cutoff)) + "\n")
		}
		sb.WriteString(m.slotLine(i, team, view.Selection, i < c.Cutoff) + "\n")
	}

	sb.WriteString("\n" + InfoStyle.Render(fmt.Sprintf("Teams (%d)", len(view.Unranked))) + "\n")
	sb.WriteString(m.poolLine(view) + "\n\n")

	if m.status != "" {
		if m.statusErr {
			sb.WriteString(ErrorStyle.Render(m.status) + "\n")
		} else {
			sb.WriteString(SuccessStyle.Render(m.status) + "\n")
		}
	} else {
		sb.WriteString(InfoStyle.Render(hints[view.Hint]) + "\n")
	}

	help := "tab: slots/pool  enter: select  p: to pool  esc: clear  [ ]: category  q: quit"
	if m.opts.Exporter != nil {
		help += "  e: save image"
	}
	sb.WriteString(InfoStyle.Render(help) + "\n")
	return sb.String()
}

func (m *Model) slotLine(i int, team *catalog.Team, sel interaction.Selection, qualified bool) string {
	cursor := "  "
	if m.zone == zoneSlots && m.slotIdx == i {
		cursor = CursorStyle.Render("> ")
	}
	rank := RankStyle.Render(fmt.Sprint(i + 1))
	if qualified {
		rank = QualifiedRankStyle.Render(fmt.Sprint(i + 1))
	}

	if team == nil {
		return cursor + rank + " " + EmptySlotStyle.Render("  empty")
	}
	card := TeamStyle(*team)
	if sel.Kind == interaction.SelectRank && sel.Index == i {
		card = card.Inherit(SelectedStyle)
	}
	return cursor + rank + " " + card.Render(team.Name)
}

func (m *Model) poolLine(view interaction.View) string {
	if len(view.Unranked) == 0 {
		return InfoStyle.Render("  (every team is ranked)")
	}
	parts := make([]string, len(view.Unranked))
	for i, t := range view.Unranked {
		style := TeamStyle(t).Width(0)
		if view.Selection.Kind == interaction.SelectPool && view.Selection.TeamID == t.ID {
			style = style.Inherit(SelectedStyle)
		}
		label := style.Render(t.Name)
		if m.zone == zonePool && m.poolIdx == i {
			label = CursorStyle.Render(">") + label
		} else {
			label = " " + label
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}
