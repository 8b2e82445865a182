package dialog

import "time"

// Response is one player choice at a node. A nil NextNodeID ends the
// conversation.
type Response struct {
	Text       string  `json:"text"`
	NextNodeID *string `json:"nextNodeId"`
}

func (r Response) Terminal() bool {
	return r.NextNodeID == nil
}

// Node is a single NPC message with the player choices that follow it.
// A node with no responses is a dead end and also ends the conversation.
type Node struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	Responses []Response `json:"responses"`
	Portrait  string     `json:"portrait,omitempty"`
}

// Action is an authored effect that fires when a conversation with this
// tree completes. The dialog engine only carries these; the game session
// executes them.
type Action struct {
	Type   string `json:"type"` // "explore", "resource", "tutorial"
	ID     string `json:"id"`
	Amount int    `json:"amount,omitempty"`
}

// Tree is one branching conversation. Immutable once validated; traversal
// state lives in the engine's session, never on the tree.
type Tree struct {
	ID            string          `json:"id"`
	CharacterName string          `json:"characterName"`
	Portrait      string          `json:"portrait,omitempty"`
	StartNodeID   string          `json:"startNodeId"`
	Nodes         map[string]Node `json:"nodes"`
	OnComplete    []Action        `json:"onComplete,omitempty"`
}

func (t *Tree) Node(id string) (Node, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

type Speaker string

const (
	SpeakerNPC    Speaker = "npc"
	SpeakerPlayer Speaker = "player"
)

// Line is one transcript entry.
type Line struct {
	Speaker     Speaker
	SpeakerName string
	Message     string
	At          time.Time
}

// Conversation is the append-only transcript of one traversal. Sealed
// (CompletedAt set) when the traversal ends; Abandoned marks sessions cut
// short by closing the dialog or starting another one.
type Conversation struct {
	TreeID        string
	CharacterName string
	Lines         []Line
	StartedAt     time.Time
	CompletedAt   *time.Time
	Abandoned     bool
}

func (c *Conversation) Sealed() bool {
	return c.CompletedAt != nil
}
