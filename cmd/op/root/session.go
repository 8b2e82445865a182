package root

import (
	"context"
	"fmt"
	"io"

	"outpost/internal/config"
	"outpost/internal/game"
	"outpost/internal/ui"
)

// stdoutNotifier prints objective completions as they happen.
type stdoutNotifier struct {
	out io.Writer
}

func (n stdoutNotifier) Notify(title, message string) {
	fmt.Fprintln(n.out, ui.Gold.Render(ui.IconSparkle+" "+title)+" "+message)
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func openSession(ctx context.Context, out io.Writer) (*game.Session, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := game.Open(ctx, cfg, stdoutNotifier{out: out})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = s.Close()
	}
	return s, cleanup, nil
}
