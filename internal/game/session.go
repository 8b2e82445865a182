// Package game wires the engines to content and persistence for one play
// session. Everything here is single-threaded: operations are driven by
// the CLI/TUI one at a time and run to completion.
package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"outpost/internal/config"
	"outpost/internal/content"
	"outpost/internal/dialog"
	"outpost/internal/quest"
	"outpost/internal/storage"
)

// Session owns the loaded content, both engines, and the save database.
// Construct with Open, release with Close.
type Session struct {
	Content *content.Set
	Quests  *quest.Engine
	Dialogs *dialog.Engine
	World   *storage.WorldRepo

	ctx      context.Context
	db       *sql.DB
	progress *storage.ProgressRepo
	history  *storage.HistoryRepo

	// persist flips to false on the first storage failure; the session
	// then runs in memory only and the player keeps playing.
	persist bool
}

// Open loads content, opens the save database, and restores progress.
// A broken or unavailable save database degrades to an in-memory session
// with a single logged warning; it never fails the open.
func Open(ctx context.Context, cfg config.Config, notifier quest.Notifier) (*Session, error) {
	set, err := content.FromDirOrDefault(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	s := &Session{
		Content: set,
		ctx:     ctx,
	}

	db, err := storage.Open(ctx, cfg.ResolvedDBPath())
	if err != nil {
		log.Printf("save database unavailable, progress will not persist this session: %v", err)
	} else {
		s.db = db
		s.progress = storage.NewProgressRepo(db)
		s.history = storage.NewHistoryRepo(db)
		s.World = storage.NewWorldRepo(db)
		s.persist = true
	}

	saved, tracked := s.loadSaved()

	s.Quests = quest.New(quest.Env{
		ResourceAtLeast: func(id string, amount int) bool {
			if s.World == nil {
				return false
			}
			n, err := s.World.Resource(s.ctx, id)
			return err == nil && n >= amount
		},
		LocationExplored: func(id string) bool {
			if s.World == nil {
				return false
			}
			ok, err := s.World.TileExplored(s.ctx, id)
			return err == nil && ok
		},
		// Feature and custom conditions are authored ahead of the
		// systems that will satisfy them; they stay locked for now.
	}, notifier)
	s.Quests.Load(set.Objectives, saved, tracked)
	s.Quests.SetSaveHook(s.saveProgress)

	s.Dialogs = dialog.NewEngine(set)
	s.Dialogs.SetSealHook(s.onSeal)
	if s.history != nil {
		if convs, err := s.history.ListAll(ctx); err == nil {
			s.Dialogs.RestoreHistory(convs)
		}
	}

	return s, nil
}

func (s *Session) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ExploreTile marks a world tile explored and re-checks discovery
// conditions that may now hold.
func (s *Session) ExploreTile(id string) []string {
	if s.World != nil {
		if err := s.World.ExploreTile(s.ctx, id, nowUTC()); err != nil {
			s.storageFailed(err)
		}
	}
	return s.Quests.RefreshDiscoveries()
}

// AddResource applies a delta to the resource ledger and re-checks
// discovery conditions. Returns the new amount.
func (s *Session) AddResource(id string, delta int) int {
	amount := 0
	if s.World != nil {
		n, err := s.World.AddResource(s.ctx, id, delta)
		if err != nil {
			s.storageFailed(err)
		} else {
			amount = n
		}
	}
	s.Quests.RefreshDiscoveries()
	return amount
}

func (s *Session) loadSaved() (map[string]quest.SavedProgress, string) {
	if s.progress == nil {
		return nil, ""
	}
	saved, tracked, err := s.progress.LoadAll(s.ctx)
	if err != nil {
		s.storageFailed(err)
		return nil, ""
	}
	return saved, tracked
}

func (s *Session) saveProgress() {
	if !s.persist {
		return
	}
	if err := s.progress.SaveAll(s.ctx, s.Quests.Progress(), s.Quests.TrackedID()); err != nil {
		s.storageFailed(err)
	}
}

// storageFailed logs one warning per session, then goes quiet; the
// session keeps running in memory.
func (s *Session) storageFailed(err error) {
	if !s.persist {
		return
	}
	s.persist = false
	log.Printf("save failed, continuing without persistence for this session: %v", err)
}

// onSeal runs every time a conversation ends. The transcript is stored;
// a conversation that ended on a terminal choice (not abandoned) also
// fires its authored completion actions.
func (s *Session) onSeal(c *dialog.Conversation, t *dialog.Tree) {
	if s.persist && s.history != nil {
		if _, err := s.history.Insert(s.ctx, c); err != nil {
			s.storageFailed(err)
		}
	}
	if c.Abandoned {
		return
	}
	for _, a := range t.OnComplete {
		s.applyAction(a)
	}
	s.Quests.RefreshDiscoveries()
}

func (s *Session) applyAction(a dialog.Action) {
	switch a.Type {
	case "explore":
		if s.World != nil {
			if err := s.World.ExploreTile(s.ctx, a.ID, nowUTC()); err != nil {
				s.storageFailed(err)
			}
		}
	case "resource":
		if s.World != nil {
			if _, err := s.World.AddResource(s.ctx, a.ID, a.Amount); err != nil {
				s.storageFailed(err)
			}
		}
	case "feature":
		if s.World != nil {
			if err := s.World.InteractFeature(s.ctx, a.ID, nowUTC()); err != nil {
				s.storageFailed(err)
			}
		}
	case "tutorial":
		if s.World != nil {
			if err := s.World.CompleteTutorial(s.ctx, a.ID, nowUTC()); err != nil {
				s.storageFailed(err)
			}
		}
	case "objective":
		s.Quests.Complete(a.ID)
	default:
		log.Printf("unknown dialog completion action %q (%s)", a.Type, a.ID)
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
