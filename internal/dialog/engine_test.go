package dialog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]*Tree

func (m mapSource) Tree(id string) (*Tree, error) {
	t, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("no such tree: %s", id)
	}
	return t, nil
}

func newTestEngine(trees ...*Tree) *Engine {
	src := mapSource{}
	for _, t := range trees {
		src[t.ID] = t
	}
	e := NewEngine(src)
	e.logf = func(string, ...any) {}
	return e
}

func TestLoadTreeCachesValidTrees(t *testing.T) {
	e := newTestEngine(validTree())

	first, diags, err := e.LoadTree("warden_intro")
	require.NoError(t, err)
	assert.Empty(t, diags)

	second, _, err := e.LoadTree("warden_intro")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadTreeRejectsInvalidTree(t *testing.T) {
	bad := validTree()
	bad.StartNodeID = "nope"
	e := newTestEngine(bad)

	_, diags, err := e.LoadTree("warden_intro")
	require.Error(t, err)
	assert.True(t, HasErrors(diags))

	// Not cached: a second load re-fetches and fails again.
	_, _, err = e.LoadTree("warden_intro")
	require.Error(t, err)
}

func TestLoadTreeUnknownID(t *testing.T) {
	e := newTestEngine()
	_, _, err := e.LoadTree("ghost")
	require.Error(t, err)
}

func TestTraversalEndsCleanly(t *testing.T) {
	e := newTestEngine(validTree())
	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)

	_, node, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "greet", node.ID)
	require.Len(t, e.Transcript(), 1)
	assert.Equal(t, SpeakerNPC, e.Transcript()[0].Speaker)

	// "Who are you?" advances; transcript gains player + npc lines.
	require.True(t, e.SelectResponse(0))
	_, node, ok = e.Active()
	require.True(t, ok)
	assert.Equal(t, "who", node.ID)
	require.Len(t, e.Transcript(), 3)
	assert.Equal(t, SpeakerPlayer, e.Transcript()[1].Speaker)

	// Terminal choice seals exactly one record and returns to idle.
	require.True(t, e.SelectResponse(0))
	_, _, ok = e.Active()
	assert.False(t, ok)
	require.Len(t, e.History(), 1)
	conv := e.History()[0]
	assert.True(t, conv.Sealed())
	assert.False(t, conv.Abandoned)
	assert.Equal(t, "warden_intro", conv.TreeID)
	assert.Len(t, conv.Lines, 4)
}

func TestSelectResponseNoOps(t *testing.T) {
	e := newTestEngine(validTree())

	// Idle: no transition defined.
	assert.False(t, e.SelectResponse(0))

	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)
	assert.False(t, e.SelectResponse(-1))
	assert.False(t, e.SelectResponse(5))

	// Failed selections leave the session untouched.
	_, node, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "greet", node.ID)
	assert.Len(t, e.Transcript(), 1)
	assert.Empty(t, e.History())
}

func TestCyclesAreTraversableWhenTerminalPathExists(t *testing.T) {
	// greet -> who -> greet loop, with an exit at greet.
	tree := validTree()
	n := tree.Nodes["who"]
	n.Responses = []Response{{Text: "Wait, start over.", NextNodeID: next("greet")}}
	tree.Nodes["who"] = n

	e := newTestEngine(tree)
	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.True(t, e.SelectResponse(0)) // greet -> who
		require.True(t, e.SelectResponse(0)) // who -> greet
	}
	require.True(t, e.SelectResponse(1)) // exit
	assert.Len(t, e.History(), 1)
}

func TestStartReplacesActiveSession(t *testing.T) {
	second := validTree()
	second.ID = "warden_again"

	e := newTestEngine(validTree(), second)
	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)
	require.True(t, e.SelectResponse(0))

	_, err = e.StartByID("warden_again")
	require.NoError(t, err)

	require.Len(t, e.History(), 1)
	assert.True(t, e.History()[0].Abandoned)
	tree, _, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "warden_again", tree.ID)
}

func TestCloseOnlyClearsOwnTree(t *testing.T) {
	e := newTestEngine(validTree())
	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)

	// Closing an unrelated dialog leaves the traversal alone.
	e.Close("tutorial_popup")
	_, _, ok := e.Active()
	assert.True(t, ok)

	e.Close("warden_intro")
	_, _, ok = e.Active()
	assert.False(t, ok)
	require.Len(t, e.History(), 1)
	assert.True(t, e.History()[0].Abandoned)
}

func TestDeadEndNodeSealsCleanly(t *testing.T) {
	// The only terminal is a node with no responses; walking into it must
	// end the conversation just like a nil nextNodeId would.
	tree := &Tree{
		ID:            "warden_dismissal",
		CharacterName: "Warden Hale",
		StartNodeID:   "greet",
		Nodes: map[string]Node{
			"greet": {ID: "greet", Message: "You're new here.", Responses: []Response{
				{Text: "I was just leaving.", NextNodeID: next("leave")},
			}},
			"leave": {ID: "leave", Message: "See that you do."},
		},
	}
	require.False(t, HasErrors(Validate(tree)))

	e := newTestEngine(tree)
	var sealed []*Conversation
	e.SetSealHook(func(c *Conversation, _ *Tree) { sealed = append(sealed, c) })

	_, err := e.StartByID("warden_dismissal")
	require.NoError(t, err)
	require.True(t, e.SelectResponse(0))

	// Sealed on arrival: engine idle, record finished, hook fired.
	_, _, ok := e.Active()
	assert.False(t, ok)
	require.Len(t, e.History(), 1)
	conv := e.History()[0]
	assert.True(t, conv.Sealed())
	assert.False(t, conv.Abandoned)
	assert.Len(t, conv.Lines, 3)
	require.Len(t, sealed, 1)
	assert.False(t, sealed[0].Abandoned)
}

func TestDeadEndStartNodeSealsImmediately(t *testing.T) {
	tree := &Tree{
		ID:            "warden_nod",
		CharacterName: "Warden Hale",
		StartNodeID:   "nod",
		Nodes: map[string]Node{
			"nod": {ID: "nod", Message: "Hale nods at you."},
		},
	}
	require.False(t, HasErrors(Validate(tree)))

	e := newTestEngine(tree)
	_, err := e.StartByID("warden_nod")
	require.NoError(t, err)

	_, _, ok := e.Active()
	assert.False(t, ok)
	require.Len(t, e.History(), 1)
	assert.False(t, e.History()[0].Abandoned)
	assert.Len(t, e.History()[0].Lines, 1)
}

func TestSealHookFires(t *testing.T) {
	e := newTestEngine(validTree())
	var sealed []*Conversation
	e.SetSealHook(func(c *Conversation, _ *Tree) { sealed = append(sealed, c) })

	_, err := e.StartByID("warden_intro")
	require.NoError(t, err)
	require.True(t, e.SelectResponse(1)) // terminal straight away

	require.Len(t, sealed, 1)
	assert.False(t, sealed[0].Abandoned)
}
