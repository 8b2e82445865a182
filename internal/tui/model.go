package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"outpost/internal/game"
	"outpost/internal/quest"
	"outpost/internal/ui"
)

type boardModel struct {
	ctx context.Context
	s   *game.Session

	keys KeyMap

	width  int
	height int

	expanded map[string]bool
	selected int

	lastLog string
}

type revealedMsg struct {
	ids []string
}

func newBoardModel(ctx context.Context, s *game.Session) boardModel {
	return boardModel{
		ctx:      ctx,
		s:        s,
		keys:     DefaultKeyMap(),
		expanded: map[string]bool{},
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return revealedMsg{ids: m.s.Quests.RefreshDiscoveries()}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case revealedMsg:
		if len(msg.ids) > 0 {
			m.lastLog = "Revealed: " + strings.Join(msg.ids, ", ")
		} else {
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refreshCmd()
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			lines := m.boardLines()
			if m.selected < len(lines)-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			line, ok := m.selectedLine()
			if !ok {
				return m, nil
			}
			if line.hasChildren {
				m.expanded[line.objID] = !m.expanded[line.objID]
			}
			return m, nil
		case key.Matches(msg, m.keys.Track):
			line, ok := m.selectedLine()
			if !ok {
				return m, nil
			}
			if m.s.Quests.SetTracked(line.objID) {
				m.lastLog = "Tracking " + line.objID + "."
			} else {
				m.lastLog = "Cannot track " + line.objID + "."
			}
			return m, nil
		case key.Matches(msg, m.keys.More), key.Matches(msg, m.keys.Less):
			return m.adjustProgress(key.Matches(msg, m.keys.More)), nil
		case key.Matches(msg, m.keys.Complete):
			return m.completeSelected(), nil
		}
	}
	return m, nil
}

func (m boardModel) adjustProgress(up bool) boardModel {
	line, ok := m.selectedLine()
	if !ok {
		return m
	}
	o, found := m.s.Quests.Get(line.objID)
	if !found || !o.HasProgress() {
		m.lastLog = "No numeric progress on " + line.objID + "."
		return m
	}
	delta := 1
	if !up {
		delta = -1
	}
	if m.s.Quests.UpdateProgress(o.ID, o.CurrentProgress+delta) {
		m.lastLog = fmt.Sprintf("%s progress %d/%d.", o.ID, o.CurrentProgress, o.MaxProgress)
	} else {
		m.lastLog = "Cannot update " + o.ID + "."
	}
	return m
}

func (m boardModel) completeSelected() boardModel {
	line, ok := m.selectedLine()
	if !ok {
		return m
	}
	if line.subID != "" {
		if m.s.Quests.UpdateSubtask(line.objID, line.subID, !line.done) {
			m.lastLog = "Toggled " + line.subID + "."
		} else {
			m.lastLog = "Cannot toggle " + line.subID + "."
		}
		return m
	}
	o, found := m.s.Quests.Get(line.objID)
	if !found {
		return m
	}
	switch {
	case o.Status == quest.StatusCompleted:
		m.lastLog = "Already completed."
	case o.HasSubtasks():
		m.expanded[o.ID] = true
		m.lastLog = "Toggle the subtasks instead."
	case o.HasProgress():
		m.lastLog = "Use +/- to advance progress."
	case m.s.Quests.Complete(o.ID):
		m.lastLog = ui.IconDone + " Completed " + o.ID + "."
	default:
		m.lastLog = "Cannot complete " + o.ID + "."
	}
	return m
}

type boardLine struct {
	objID       string
	subID       string
	title       string
	status      quest.Status
	tracked     bool
	depth       int
	hasChildren bool
	expanded    bool
	done        bool
	progress    string
}

func (m boardModel) boardLines() []boardLine {
	tracked := m.s.Quests.TrackedID()

	var out []boardLine
	for _, o := range m.s.Quests.Ordered() {
		line := boardLine{
			objID:       o.ID,
			title:       o.Title,
			status:      o.Status,
			tracked:     o.ID == tracked,
			hasChildren: o.HasSubtasks(),
			expanded:    m.expanded[o.ID],
		}
		if o.HasProgress() {
			line.progress = ui.ProgressBar(o.CurrentProgress, o.MaxProgress, 14)
		}
		out = append(out, line)
		if !o.HasSubtasks() || !m.expanded[o.ID] {
			continue
		}
		for _, st := range o.Subtasks {
			out = append(out, boardLine{
				objID: o.ID,
				subID: st.ID,
				title: st.Description,
				depth: 1,
				done:  st.Completed,
			})
		}
	}
	return out
}

func (m boardModel) selectedLine() (boardLine, bool) {
	lines := m.boardLines()
	if m.selected < 0 || m.selected >= len(lines) {
		return boardLine{}, false
	}
	return lines[m.selected], true
}

func (m boardModel) View() string {
	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	main := m.s.Quests.ByCategory(quest.CategoryMain)
	side := m.s.Quests.ByCategory(quest.CategorySecondary)
	doneMain, doneSide := 0, 0
	for _, o := range main {
		if o.Status == quest.StatusCompleted {
			doneMain++
		}
	}
	for _, o := range side {
		if o.Status == quest.StatusCompleted {
			doneSide++
		}
	}
	trackedTitle := "(none)"
	if t := m.s.Quests.Tracked(); t != nil {
		trackedTitle = t.Title
	}
	return fmt.Sprintf("%s | main %d/%d | secondary %d/%d | %s %s",
		ui.Heading(ui.IconBase, "Outpost"),
		doneMain, len(main), doneSide, len(side),
		ui.IconPin, trackedTitle)
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.H2.Render("Supplies")}
	if m.s.World == nil {
		lines = append(lines, ui.Muted.Render("(memory only)"))
	} else if res, err := m.s.World.Resources(m.ctx); err != nil || len(res) == 0 {
		lines = append(lines, ui.Muted.Render("(none yet)"))
	} else {
		ids := make([]string, 0, len(res))
		for id := range res {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("- %s: %d", id, res[id]))
		}
	}
	lines = append(lines, "")
	lines = append(lines, ui.H2.Render("Keys"))
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter: expand")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- t: track")
	lines = append(lines, "- +/-: progress")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	var out []string
	out = append(out, ui.H2.Render("Objectives"))

	lines := m.boardLines()
	if len(lines) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	if m.selected >= len(lines) {
		m.selected = len(lines) - 1
	}
	for i, l := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", l.depth)
		if l.subID != "" {
			box := "[ ]"
			if l.done {
				box = "[x]"
			}
			out = append(out, fmt.Sprintf("%s%s%s %s", cursor, indent, box, l.title))
			continue
		}
		fold := "  "
		if l.hasChildren {
			if l.expanded {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		pin := ""
		if l.tracked {
			pin = ui.IconPin + " "
		}
		row := fmt.Sprintf("%s%s%s%s (%s)", cursor, fold, pin, l.title, ui.StatusText(l.status))
		if l.progress != "" {
			row += " " + l.progress
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog + "\n" + ui.Muted.Render(m.keys.ShortHelp())
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
