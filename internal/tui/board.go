package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"outpost/internal/dialog"
	"outpost/internal/game"
)

func RunBoard(ctx context.Context, s *game.Session, out io.Writer) error {
	m := newBoardModel(ctx, s)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

func RunTalk(s *game.Session, t *dialog.Tree, out io.Writer) error {
	if err := s.Dialogs.Start(t); err != nil {
		return err
	}
	m := newTalkModel(s, t)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
