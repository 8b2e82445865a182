package quest

import (
	"testing"
	"time"
)

type recordingNotifier struct {
	titles []string
}

func (n *recordingNotifier) Notify(title, message string) {
	n.titles = append(n.titles, title)
}

func newTestEngine(t *testing.T, defs []Objective) (*Engine, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	e := New(Env{}, n)
	e.Load(defs, nil, "")
	return e, n
}

func baseDefs() []Objective {
	return []Objective{
		{ID: "establish_camp", Title: "Establish Camp", Description: "Set up the first camp.", Status: StatusActive, Category: CategoryMain, Order: 1},
		{
			ID: "scout_ridge", Title: "Scout the Ridge", Description: "Find a path north.",
			Status: StatusHidden, Category: CategoryMain, Order: 2,
			DiscoveryConditions: []Condition{{Type: ConditionObjective, ID: "establish_camp"}},
		},
		{ID: "gather_wood", Title: "Gather Wood", Description: "Stockpile timber.", Status: StatusActive, Category: CategorySecondary, Order: 1, MaxProgress: 50},
		{
			ID: "repair_cart", Title: "Repair the Cart", Description: "Fix both wheels.",
			Status: StatusActive, Category: CategorySecondary, Order: 2,
			Subtasks: []Subtask{
				{ID: "front_wheel", Description: "Replace the front wheel"},
				{ID: "rear_wheel", Description: "Replace the rear wheel"},
			},
		},
	}
}

func TestCompleteRevealsDependent(t *testing.T) {
	e, n := newTestEngine(t, baseDefs())

	if !e.Complete("establish_camp") {
		t.Fatalf("Complete returned false")
	}
	camp, _ := e.Get("establish_camp")
	if camp.Status != StatusCompleted || camp.CompletedAt == nil {
		t.Fatalf("camp status=%q completedAt=%v, want completed with timestamp", camp.Status, camp.CompletedAt)
	}
	ridge, _ := e.Get("scout_ridge")
	if ridge.Status != StatusActive {
		t.Fatalf("ridge status=%q, want active after camp completes", ridge.Status)
	}
	if len(n.titles) != 1 || n.titles[0] != "Establish Camp" {
		t.Fatalf("notifications=%v, want one for Establish Camp", n.titles)
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())

	if !e.Complete("establish_camp") {
		t.Fatalf("first Complete returned false")
	}
	if e.Complete("establish_camp") {
		t.Fatalf("second Complete returned true, want false")
	}
	if e.UpdateProgress("establish_camp", 1) {
		t.Fatalf("UpdateProgress on completed objective returned true")
	}
	o, _ := e.Get("establish_camp")
	if o.Status != StatusCompleted {
		t.Fatalf("status regressed to %q", o.Status)
	}
}

func TestUpdateProgressClampsAndCompletes(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())

	if !e.UpdateProgress("gather_wood", 30) {
		t.Fatalf("UpdateProgress(30) returned false")
	}
	o, _ := e.Get("gather_wood")
	if o.CurrentProgress != 30 || o.Status != StatusActive {
		t.Fatalf("progress=%d status=%q, want 30/active", o.CurrentProgress, o.Status)
	}

	if !e.UpdateProgress("gather_wood", 60) {
		t.Fatalf("UpdateProgress(60) returned false")
	}
	o, _ = e.Get("gather_wood")
	if o.CurrentProgress != 50 {
		t.Fatalf("progress=%d, want clamped to 50", o.CurrentProgress)
	}
	if o.Status != StatusCompleted {
		t.Fatalf("status=%q, want completed at max progress", o.Status)
	}
}

func TestUpdateProgressWrongRepresentation(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())

	if e.UpdateProgress("repair_cart", 10) {
		t.Fatalf("UpdateProgress on subtask objective returned true")
	}
	if e.UpdateSubtask("gather_wood", "front_wheel", true) {
		t.Fatalf("UpdateSubtask on numeric objective returned true")
	}
	if e.UpdateSubtask("repair_cart", "no_such_wheel", true) {
		t.Fatalf("UpdateSubtask with unknown subtask returned true")
	}
}

func TestSubtasksCompleteObjective(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())

	if !e.UpdateSubtask("repair_cart", "front_wheel", true) {
		t.Fatalf("first UpdateSubtask returned false")
	}
	o, _ := e.Get("repair_cart")
	if o.Status != StatusActive {
		t.Fatalf("status=%q after one subtask, want active", o.Status)
	}

	if !e.UpdateSubtask("repair_cart", "rear_wheel", true) {
		t.Fatalf("second UpdateSubtask returned false")
	}
	o, _ = e.Get("repair_cart")
	if o.Status != StatusCompleted {
		t.Fatalf("status=%q after all subtasks, want completed", o.Status)
	}
}

func TestTrackingRules(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())

	if got := e.TrackedID(); got != "establish_camp" {
		t.Fatalf("initial tracked=%q, want establish_camp", got)
	}
	if e.SetTracked("scout_ridge") {
		t.Fatalf("SetTracked on hidden objective returned true")
	}
	if e.SetTracked("no_such_objective") {
		t.Fatalf("SetTracked on unknown objective returned true")
	}
	if got := e.TrackedID(); got != "establish_camp" {
		t.Fatalf("tracked=%q after failed SetTracked, want establish_camp", got)
	}

	// Completing the tracked objective advances tracking to the next
	// active main objective, which the same completion revealed.
	if !e.Complete("establish_camp") {
		t.Fatalf("Complete returned false")
	}
	if got := e.TrackedID(); got != "scout_ridge" {
		t.Fatalf("tracked=%q after completion, want scout_ridge", got)
	}

	// Secondary objectives are never auto-tracked.
	if !e.Complete("scout_ridge") {
		t.Fatalf("Complete ridge returned false")
	}
	if got := e.TrackedID(); got != "" {
		t.Fatalf("tracked=%q with no active main objectives, want none", got)
	}
}

func TestResourceConditionSweep(t *testing.T) {
	wood := 0
	n := &recordingNotifier{}
	e := New(Env{
		ResourceAtLeast: func(id string, amount int) bool {
			return id == "wood" && wood >= amount
		},
	}, n)
	e.Load([]Objective{
		{ID: "build_wall", Title: "Build a Wall", Description: "Needs timber.",
			Status: StatusHidden, Category: CategoryMain, Order: 1,
			DiscoveryConditions: []Condition{{Type: ConditionResource, ID: "wood", Value: 10}}},
	}, nil, "")

	o, _ := e.Get("build_wall")
	if o.Status != StatusHidden {
		t.Fatalf("status=%q before resources, want hidden", o.Status)
	}

	wood = 10
	revealed := e.RefreshDiscoveries()
	if len(revealed) != 1 || revealed[0] != "build_wall" {
		t.Fatalf("revealed=%v, want [build_wall]", revealed)
	}
	o, _ = e.Get("build_wall")
	if o.Status != StatusActive {
		t.Fatalf("status=%q after refresh, want active", o.Status)
	}
}

func TestFeatureAndCustomDefaultFalse(t *testing.T) {
	e, _ := newTestEngine(t, []Objective{
		{ID: "locked", Title: "Locked", Description: "", Status: StatusHidden, Category: CategoryMain, Order: 1,
			DiscoveryConditions: []Condition{{Type: ConditionFeature, ID: "mill"}}},
		{ID: "locked2", Title: "Locked2", Description: "", Status: StatusHidden, Category: CategoryMain, Order: 2,
			DiscoveryConditions: []Condition{{Type: ConditionCustom, ID: "dev_flag"}}},
	})
	if got := e.RefreshDiscoveries(); got != nil {
		t.Fatalf("revealed=%v with unset predicates, want none", got)
	}
}

func TestLoadOverlaysSavedProgress(t *testing.T) {
	completedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saved := map[string]SavedProgress{
		"establish_camp": {Status: StatusCompleted, CompletedAt: &completedAt},
		"gather_wood":    {Status: StatusActive, CurrentProgress: 120},
		"repair_cart":    {Status: StatusActive, Subtasks: map[string]bool{"front_wheel": true}},
	}

	e := New(Env{}, nil)
	e.Load(baseDefs(), saved, "bogus_tracked")

	camp, _ := e.Get("establish_camp")
	if camp.Status != StatusCompleted || camp.CompletedAt == nil || !camp.CompletedAt.Equal(completedAt) {
		t.Fatalf("camp not restored: status=%q completedAt=%v", camp.Status, camp.CompletedAt)
	}
	if camp.Title != "Establish Camp" {
		t.Fatalf("title=%q, content must stay source of truth", camp.Title)
	}

	wood, _ := e.Get("gather_wood")
	if wood.CurrentProgress != 50 {
		t.Fatalf("progress=%d, want clamped to max 50", wood.CurrentProgress)
	}

	cart, _ := e.Get("repair_cart")
	if !cart.Subtasks[0].Completed || cart.Subtasks[1].Completed {
		t.Fatalf("subtask overlay wrong: %+v", cart.Subtasks)
	}

	// Bogus tracked id falls back to the lowest-order active main
	// objective; camp is completed, and its completion (restored from the
	// save) unlocks the ridge during load.
	if got := e.TrackedID(); got != "scout_ridge" {
		t.Fatalf("tracked=%q, want scout_ridge", got)
	}
}

func TestOrderedGroupsMainFirst(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())
	_ = e.Complete("establish_camp") // reveals scout_ridge

	got := e.Ordered()
	var ids []string
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	want := []string{"establish_camp", "scout_ridge", "gather_wood", "repair_cart"}
	if len(ids) != len(want) {
		t.Fatalf("ids=%v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids=%v, want %v", ids, want)
		}
	}
}

func TestProgressRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())
	_ = e.UpdateSubtask("repair_cart", "front_wheel", true)
	_ = e.UpdateProgress("gather_wood", 25)
	_ = e.Complete("establish_camp")

	snapshot := e.Progress()

	e2 := New(Env{}, nil)
	e2.Load(baseDefs(), snapshot, e.TrackedID())

	for _, id := range []string{"establish_camp", "scout_ridge", "gather_wood", "repair_cart"} {
		a, _ := e.Get(id)
		b, _ := e2.Get(id)
		if a.Status != b.Status || a.CurrentProgress != b.CurrentProgress {
			t.Fatalf("%s: got status=%q progress=%d, want %q/%d", id, b.Status, b.CurrentProgress, a.Status, a.CurrentProgress)
		}
	}
	if e2.TrackedID() != e.TrackedID() {
		t.Fatalf("tracked=%q, want %q", e2.TrackedID(), e.TrackedID())
	}
}

func TestSaveHookFiresOnMutation(t *testing.T) {
	e, _ := newTestEngine(t, baseDefs())
	saves := 0
	e.SetSaveHook(func() { saves++ })

	e.SetTracked("gather_wood")
	e.UpdateProgress("gather_wood", 10)
	e.SetTracked("nope") // failed mutation, no save
	if saves != 2 {
		t.Fatalf("saves=%d, want 2", saves)
	}
}
