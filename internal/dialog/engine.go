package dialog

import (
	"fmt"
	"log"
	"time"
)

// Source provides raw, unvalidated tree definitions by id. The content
// loader implements it.
type Source interface {
	Tree(id string) (*Tree, error)
}

// Engine caches validated trees and runs at most one traversal session at
// a time. Malformed trees fail at load time with diagnostics; traversal
// mistakes (bad index, no active session) are logged no-ops.
type Engine struct {
	source  Source
	trees   map[string]*Tree
	active  *session
	history []*Conversation

	onSeal func(*Conversation, *Tree)
	now    func() time.Time
	logf   func(format string, args ...any)
}

type session struct {
	tree   *Tree
	nodeID string
	conv   *Conversation
}

func NewEngine(source Source) *Engine {
	return &Engine{
		source: source,
		trees:  map[string]*Tree{},
		now:    time.Now,
		logf:   log.Printf,
	}
}

// SetSealHook registers a function called whenever a conversation seals,
// whether it ended on a terminal response or was abandoned. The hook can
// tell the two apart through Conversation.Abandoned.
func (e *Engine) SetSealHook(fn func(*Conversation, *Tree)) {
	e.onSeal = fn
}

// LoadTree returns the validated tree for id, fetching and validating it
// on first use. A tree with hard errors is never cached or returned; its
// diagnostics come back with the error so callers can surface them.
func (e *Engine) LoadTree(id string) (*Tree, []Diagnostic, error) {
	if t, ok := e.trees[id]; ok {
		return t, nil, nil
	}
	t, err := e.source.Tree(id)
	if err != nil {
		return nil, nil, fmt.Errorf("load dialog tree %q: %w", id, err)
	}
	diags := Validate(t)
	if HasErrors(diags) {
		return nil, diags, fmt.Errorf("dialog tree %q failed validation", id)
	}
	for _, d := range diags {
		e.logf("dialog tree %q: %s", id, d)
	}
	e.trees[id] = t
	return t, diags, nil
}

// Start begins a fresh traversal at the tree's start node and opens its
// transcript with the start node's message. A traversal already in flight
// is abandoned and sealed first.
func (e *Engine) Start(t *Tree) error {
	start, ok := t.Node(t.StartNodeID)
	if !ok {
		return fmt.Errorf("dialog tree %q: start node %q missing", t.ID, t.StartNodeID)
	}
	if e.active != nil {
		e.logf("dialog: starting %q replaces active conversation %q", t.ID, e.active.tree.ID)
		e.seal(true)
	}

	now := e.now().UTC()
	conv := &Conversation{
		TreeID:        t.ID,
		CharacterName: t.CharacterName,
		StartedAt:     now,
	}
	conv.Lines = append(conv.Lines, Line{
		Speaker:     SpeakerNPC,
		SpeakerName: t.CharacterName,
		Message:     start.Message,
		At:          now,
	})
	e.active = &session{tree: t, nodeID: t.StartNodeID, conv: conv}
	if len(start.Responses) == 0 {
		// A start node with nothing to say back to ends immediately.
		e.seal(false)
	}
	return nil
}

// StartByID loads (validating if needed) and starts a tree in one call.
func (e *Engine) StartByID(id string) ([]Diagnostic, error) {
	t, diags, err := e.LoadTree(id)
	if err != nil {
		return diags, err
	}
	return diags, e.Start(t)
}

// Active returns the tree and current node of the traversal in flight.
func (e *Engine) Active() (*Tree, Node, bool) {
	if e.active == nil {
		return nil, Node{}, false
	}
	n, ok := e.active.tree.Node(e.active.nodeID)
	if !ok {
		// Unreachable for validated trees.
		return nil, Node{}, false
	}
	return e.active.tree, n, true
}

// Transcript returns the lines of the conversation in flight.
func (e *Engine) Transcript() []Line {
	if e.active == nil {
		return nil
	}
	return e.active.conv.Lines
}

// SelectResponse applies the player's choice at the current node. A
// terminal choice seals the conversation and returns the engine to idle;
// any other choice advances to the next node and speaks its message.
// Advancing into a node with no responses seals too: dead-end nodes end
// a conversation exactly like a nil nextNodeId.
func (e *Engine) SelectResponse(i int) bool {
	if e.active == nil {
		e.logf("dialog: response selected with no active conversation")
		return false
	}
	node, ok := e.active.tree.Node(e.active.nodeID)
	if !ok {
		e.logf("dialog: active node %q missing from tree %q", e.active.nodeID, e.active.tree.ID)
		return false
	}
	if i < 0 || i >= len(node.Responses) {
		e.logf("dialog: response index %d out of range for node %q", i, node.ID)
		return false
	}
	r := node.Responses[i]

	now := e.now().UTC()
	e.active.conv.Lines = append(e.active.conv.Lines, Line{
		Speaker:     SpeakerPlayer,
		SpeakerName: "You",
		Message:     r.Text,
		At:          now,
	})

	if r.Terminal() {
		e.seal(false)
		return true
	}

	next, ok := e.active.tree.Node(*r.NextNodeID)
	if !ok {
		// Validation guarantees this; guard anyway and bail out cleanly.
		e.logf("dialog: node %q missing from tree %q", *r.NextNodeID, e.active.tree.ID)
		e.seal(true)
		return false
	}
	e.active.nodeID = next.ID
	e.active.conv.Lines = append(e.active.conv.Lines, Line{
		Speaker:     SpeakerNPC,
		SpeakerName: e.active.tree.CharacterName,
		Message:     next.Message,
		At:          now,
	})
	if len(next.Responses) == 0 {
		// A node with no responses ends the conversation the same way a
		// nil nextNodeId does; the player has nothing left to say.
		e.seal(false)
	}
	return true
}

// Close abandons the active traversal if it belongs to the given tree.
// Closing an unrelated dialog leaves the traversal intact.
func (e *Engine) Close(treeID string) {
	if e.active == nil || e.active.tree.ID != treeID {
		return
	}
	e.seal(true)
}

// History returns the sealed conversations, oldest first.
func (e *Engine) History() []*Conversation {
	return e.history
}

// RestoreHistory seeds the history log from persisted records, e.g. at
// session open.
func (e *Engine) RestoreHistory(convs []*Conversation) {
	e.history = append(e.history, convs...)
}

func (e *Engine) seal(abandoned bool) {
	s := e.active
	now := e.now().UTC()
	s.conv.CompletedAt = &now
	s.conv.Abandoned = abandoned
	e.history = append(e.history, s.conv)
	e.active = nil
	if e.onSeal != nil {
		e.onSeal(s.conv, s.tree)
	}
}
