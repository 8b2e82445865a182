package quest

import "time"

// Env holds the predicates discovery conditions are checked against.
// Unset predicates evaluate to false, so a condition on a subsystem that
// is not wired simply never unlocks anything.
type Env struct {
	ResourceAtLeast   func(id string, amount int) bool
	LocationExplored  func(id string) bool
	FeatureInteracted func(id string) bool
	Custom            func(id string) bool
}

// Notifier receives completion toasts. Implementations must not call back
// into the engine.
type Notifier interface {
	Notify(title, message string)
}

// Engine owns the objective collection and the tracked-objective pointer.
// All mutation goes through its methods; mutators report success as a bool
// and never panic on bad input.
type Engine struct {
	objectives []*Objective
	byID       map[string]*Objective
	tracked    string

	env      Env
	notifier Notifier
	save     func()
	now      func() time.Time
}

func New(env Env, notifier Notifier) *Engine {
	return &Engine{
		byID:     map[string]*Objective{},
		env:      env,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetSaveHook registers a function called after every successful mutation.
// Persistence failures are the hook's problem; the engine never sees them.
func (e *Engine) SetSaveHook(fn func()) {
	e.save = fn
}

func (e *Engine) saved() {
	if e.save != nil {
		e.save()
	}
}

// Load replaces the engine's state with the given content definitions,
// overlaying saved progress where present. Definitions are deep-copied so
// callers keep ownership of their slices.
//
// trackedID is restored only if it names a non-hidden objective; otherwise
// tracking falls back to the lowest-order active main objective, or none.
func (e *Engine) Load(defs []Objective, saved map[string]SavedProgress, trackedID string) {
	e.objectives = make([]*Objective, 0, len(defs))
	e.byID = make(map[string]*Objective, len(defs))

	for i := range defs {
		o := cloneObjective(&defs[i])
		if sp, ok := saved[o.ID]; ok {
			applySaved(o, sp)
		}
		e.objectives = append(e.objectives, o)
		e.byID[o.ID] = o
	}

	// Conditions met by previously persisted world state reveal immediately.
	e.sweepDiscovery()

	e.tracked = ""
	if o, ok := e.byID[trackedID]; ok && o.Status != StatusHidden {
		e.tracked = trackedID
	} else {
		e.autoTrack()
	}
}

// SetTracked points tracking at the given objective. Hidden or unknown
// objectives cannot be tracked.
func (e *Engine) SetTracked(id string) bool {
	o, ok := e.byID[id]
	if !ok || o.Status == StatusHidden {
		return false
	}
	e.tracked = id
	e.saved()
	return true
}

// UpdateProgress sets the numeric progress of an objective, clamped to
// [0, max]. Reaching max completes the objective in the same call.
func (e *Engine) UpdateProgress(id string, value int) bool {
	o, ok := e.byID[id]
	if !ok || !o.HasProgress() || o.Status == StatusCompleted {
		return false
	}
	if value < 0 {
		value = 0
	}
	if value > o.MaxProgress {
		value = o.MaxProgress
	}
	o.CurrentProgress = value
	if value == o.MaxProgress {
		return e.Complete(id)
	}
	e.saved()
	return true
}

// UpdateSubtask flips one subtask's completed flag. Completing the last
// open subtask completes the objective in the same call.
func (e *Engine) UpdateSubtask(id, subtaskID string, completed bool) bool {
	o, ok := e.byID[id]
	if !ok || !o.HasSubtasks() || o.Status == StatusCompleted {
		return false
	}
	found := false
	for i := range o.Subtasks {
		if o.Subtasks[i].ID == subtaskID {
			o.Subtasks[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if o.subtasksDone() {
		return e.Complete(id)
	}
	e.saved()
	return true
}

// Complete marks an objective completed, notifies, and runs a discovery
// sweep so anything gated on this completion becomes active immediately.
//
// Completing an objective directly while it still has open subtasks leaves
// the subtask flags untouched; completion status wins.
func (e *Engine) Complete(id string) bool {
	o, ok := e.byID[id]
	if !ok || o.Status == StatusCompleted {
		return false
	}
	now := e.now().UTC()
	o.Status = StatusCompleted
	o.CompletedAt = &now

	if e.notifier != nil {
		e.notifier.Notify(o.Title, o.Description)
	}

	e.sweepDiscovery()

	if e.tracked == id {
		e.autoTrack()
	}

	e.saved()
	return true
}

// RefreshDiscoveries re-checks all hidden objectives against the current
// world state. Call it after external events a condition may depend on
// (tile explored, resource gained). Returns the ids revealed.
func (e *Engine) RefreshDiscoveries() []string {
	revealed := e.sweepDiscovery()
	if len(revealed) > 0 {
		e.saved()
	}
	return revealed
}

func (e *Engine) sweepDiscovery() []string {
	var revealed []string
	for _, o := range e.objectives {
		if o.Status != StatusHidden {
			continue
		}
		if e.conditionsMet(o.DiscoveryConditions) {
			o.Status = StatusActive
			revealed = append(revealed, o.ID)
		}
	}
	return revealed
}

func (e *Engine) conditionsMet(conds []Condition) bool {
	for _, c := range conds {
		if !e.conditionMet(c) {
			return false
		}
	}
	return true
}

func (e *Engine) conditionMet(c Condition) bool {
	switch c.Type {
	case ConditionObjective:
		o, ok := e.byID[c.ID]
		return ok && o.Status == StatusCompleted
	case ConditionResource:
		return e.env.ResourceAtLeast != nil && e.env.ResourceAtLeast(c.ID, c.Value)
	case ConditionLocation:
		return e.env.LocationExplored != nil && e.env.LocationExplored(c.ID)
	case ConditionFeature:
		return e.env.FeatureInteracted != nil && e.env.FeatureInteracted(c.ID)
	case ConditionCustom:
		return e.env.Custom != nil && e.env.Custom(c.ID)
	default:
		return false
	}
}

// autoTrack picks the lowest-order active main objective. Secondary
// objectives are never auto-tracked.
func (e *Engine) autoTrack() {
	e.tracked = ""
	var best *Objective
	for _, o := range e.objectives {
		if o.Category != CategoryMain || o.Status != StatusActive {
			continue
		}
		if best == nil || o.Order < best.Order {
			best = o
		}
	}
	if best != nil {
		e.tracked = best.ID
	}
}

func cloneObjective(src *Objective) *Objective {
	o := *src
	if len(src.Subtasks) > 0 {
		o.Subtasks = make([]Subtask, len(src.Subtasks))
		copy(o.Subtasks, src.Subtasks)
	}
	if len(src.DiscoveryConditions) > 0 {
		o.DiscoveryConditions = make([]Condition, len(src.DiscoveryConditions))
		copy(o.DiscoveryConditions, src.DiscoveryConditions)
	}
	if src.CompletedAt != nil {
		t := *src.CompletedAt
		o.CompletedAt = &t
	}
	return &o
}

func applySaved(o *Objective, sp SavedProgress) {
	if sp.Status.IsValid() {
		o.Status = sp.Status
	}
	if o.HasProgress() {
		p := sp.CurrentProgress
		if p < 0 {
			p = 0
		}
		if p > o.MaxProgress {
			p = o.MaxProgress
		}
		o.CurrentProgress = p
	}
	if sp.CompletedAt != nil {
		t := *sp.CompletedAt
		o.CompletedAt = &t
	}
	for i := range o.Subtasks {
		if done, ok := sp.Subtasks[o.Subtasks[i].ID]; ok {
			o.Subtasks[i].Completed = done
		}
	}
}
