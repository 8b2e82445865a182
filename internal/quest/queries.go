package quest

import "sort"

// Query results point at the engine's own records. Callers must treat them
// as read-only; mutation goes through the engine's methods.

func (e *Engine) Get(id string) (*Objective, bool) {
	o, ok := e.byID[id]
	return o, ok
}

// TrackedID returns the id of the tracked objective, or "" if none.
func (e *Engine) TrackedID() string {
	return e.tracked
}

func (e *Engine) Tracked() *Objective {
	if e.tracked == "" {
		return nil
	}
	return e.byID[e.tracked]
}

// Visible returns all objectives the player can see, in content order.
func (e *Engine) Visible() []*Objective {
	out := make([]*Objective, 0, len(e.objectives))
	for _, o := range e.objectives {
		if o.Status != StatusHidden {
			out = append(out, o)
		}
	}
	return out
}

// ByStatus filters objectives by status. Hidden objectives are excluded
// unless asked for explicitly.
func (e *Engine) ByStatus(status Status) []*Objective {
	var out []*Objective
	for _, o := range e.objectives {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (e *Engine) ByCategory(cat Category) []*Objective {
	var out []*Objective
	for _, o := range e.objectives {
		if o.Status == StatusHidden || o.Category != cat {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Ordered returns visible objectives grouped main-then-secondary, each
// group sorted by Order.
func (e *Engine) Ordered() []*Objective {
	main := e.ByCategory(CategoryMain)
	secondary := e.ByCategory(CategorySecondary)
	sort.SliceStable(main, func(i, j int) bool { return main[i].Order < main[j].Order })
	sort.SliceStable(secondary, func(i, j int) bool { return secondary[i].Order < secondary[j].Order })
	return append(main, secondary...)
}

// Progress exports the persisted slice of every objective, keyed by id.
func (e *Engine) Progress() map[string]SavedProgress {
	out := make(map[string]SavedProgress, len(e.objectives))
	for _, o := range e.objectives {
		sp := SavedProgress{
			Status:          o.Status,
			CurrentProgress: o.CurrentProgress,
		}
		if o.CompletedAt != nil {
			t := *o.CompletedAt
			sp.CompletedAt = &t
		}
		if len(o.Subtasks) > 0 {
			sp.Subtasks = make(map[string]bool, len(o.Subtasks))
			for i := range o.Subtasks {
				sp.Subtasks[o.Subtasks[i].ID] = o.Subtasks[i].Completed
			}
		}
		out[o.ID] = sp
	}
	return out
}
