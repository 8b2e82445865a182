package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"outpost/internal/dialog"
	"outpost/internal/game"
	"outpost/internal/ui"
)

type talkModel struct {
	s    *game.Session
	tree *dialog.Tree

	keys KeyMap

	width    int
	selected int
	finished bool
}

func newTalkModel(s *game.Session, t *dialog.Tree) talkModel {
	m := talkModel{s: s, tree: t, keys: DefaultKeyMap()}
	// A dead-end start node seals the conversation during Start.
	if _, _, ok := s.Dialogs.Active(); !ok {
		m.finished = true
	}
	return m
}

func (m talkModel) Init() tea.Cmd {
	return nil
}

func (m talkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.finished {
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			// Walking away mid-conversation abandons it.
			m.s.Dialogs.Close(m.tree.ID)
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if _, node, ok := m.s.Dialogs.Active(); ok && m.selected < len(node.Responses)-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			return m.choose(m.selected), nil
		}
		// Number keys pick a response directly.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m.choose(int(s[0] - '1')), nil
		}
	}
	return m, nil
}

func (m talkModel) choose(i int) talkModel {
	_, node, ok := m.s.Dialogs.Active()
	if !ok || i < 0 || i >= len(node.Responses) {
		return m
	}
	if !m.s.Dialogs.SelectResponse(i) {
		return m
	}
	m.selected = 0
	if _, _, ok := m.s.Dialogs.Active(); !ok {
		m.finished = true
	}
	return m
}

func (m talkModel) View() string {
	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconTalk, m.tree.CharacterName) + "\n\n")

	if m.finished {
		if hist := m.s.Dialogs.History(); len(hist) > 0 {
			if last := hist[len(hist)-1]; last.TreeID == m.tree.ID {
				for _, l := range last.Lines {
					b.WriteString(renderLine(l) + "\n")
				}
			}
		}
		b.WriteString("\n" + ui.Muted.Render("Conversation over. Press any key.") + "\n")
		return b.String()
	}

	for _, l := range m.s.Dialogs.Transcript() {
		b.WriteString(renderLine(l) + "\n")
	}

	_, node, ok := m.s.Dialogs.Active()
	if !ok {
		return b.String()
	}
	b.WriteString("\n")
	for i, r := range node.Responses {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		row := fmt.Sprintf("%s%d. %s", cursor, i+1, r.Text)
		if i == m.selected {
			row = ui.Key.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n" + ui.Muted.Render("↑↓ choose  enter say  q walk away") + "\n")
	return b.String()
}

func renderLine(l dialog.Line) string {
	name := l.SpeakerName
	if name == "" {
		name = string(l.Speaker)
	}
	text := name + ": " + l.Message
	if l.Speaker == dialog.SpeakerPlayer {
		return ui.PlayerLine.Render(text)
	}
	return ui.NPCLine.Render(text)
}
