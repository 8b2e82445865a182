package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next(id string) *string { return &id }

func validTree() *Tree {
	return &Tree{
		ID:            "warden_intro",
		CharacterName: "Warden Hale",
		StartNodeID:   "greet",
		Nodes: map[string]Node{
			"greet": {ID: "greet", Message: "You're new here.", Responses: []Response{
				{Text: "Who are you?", NextNodeID: next("who")},
				{Text: "Just passing through.", NextNodeID: nil},
			}},
			"who": {ID: "who", Message: "I keep the north gate.", Responses: []Response{
				{Text: "Good to know.", NextNodeID: nil},
			}},
		},
	}
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	diags := Validate(validTree())
	assert.Empty(t, diags)
}

func TestValidateMissingStartNode(t *testing.T) {
	tree := validTree()
	tree.StartNodeID = "nope"
	diags := Validate(tree)
	require.True(t, HasErrors(diags))
}

func TestValidateDanglingReference(t *testing.T) {
	tree := validTree()
	n := tree.Nodes["who"]
	n.Responses = []Response{{Text: "Good to know.", NextNodeID: next("missing")}}
	tree.Nodes["who"] = n
	diags := Validate(tree)
	require.True(t, HasErrors(diags))
}

func TestValidateEmptyResponseText(t *testing.T) {
	tree := validTree()
	n := tree.Nodes["greet"]
	n.Responses = append(n.Responses, Response{Text: "", NextNodeID: nil})
	tree.Nodes["greet"] = n
	diags := Validate(tree)
	require.True(t, HasErrors(diags))
}

func TestValidatePureCycleHasNoTerminalPath(t *testing.T) {
	tree := &Tree{
		ID:            "loop",
		CharacterName: "Echo",
		StartNodeID:   "start",
		Nodes: map[string]Node{
			"start": {ID: "start", Message: "a", Responses: []Response{{Text: "a", NextNodeID: next("n2")}}},
			"n2":    {ID: "n2", Message: "b", Responses: []Response{{Text: "b", NextNodeID: next("start")}}},
		},
	}
	diags := Validate(tree)
	require.True(t, HasErrors(diags))
}

func TestValidateDeadEndNodeCountsAsTerminal(t *testing.T) {
	tree := &Tree{
		ID:            "dead_end",
		CharacterName: "Echo",
		StartNodeID:   "start",
		Nodes: map[string]Node{
			"start": {ID: "start", Message: "a", Responses: []Response{{Text: "go", NextNodeID: next("end")}}},
			"end":   {ID: "end", Message: "b"},
		},
	}
	diags := Validate(tree)
	assert.False(t, HasErrors(diags))
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	tree := validTree()
	// Key/id mismatch plus an unreachable node: advisory only.
	tree.Nodes["orphan"] = Node{ID: "stray", Message: "nobody gets here", Responses: []Response{
		{Text: "ok", NextNodeID: nil},
	}}
	diags := Validate(tree)
	assert.False(t, HasErrors(diags))
	var warnings int
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			warnings++
		}
	}
	assert.GreaterOrEqual(t, warnings, 2)
}

func TestValidateMissingRequiredFields(t *testing.T) {
	diags := Validate(&Tree{})
	require.True(t, HasErrors(diags))
}
