package content

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outpost/internal/dialog"
	"outpost/internal/quest"
)

func TestDefaultPackLoads(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, s.Objectives)
	assert.NotEmpty(t, s.TreeIDs())

	// Everything we ship must pass the dialog engine's validation.
	for _, id := range s.TreeIDs() {
		tree, err := s.Tree(id)
		require.NoError(t, err)
		diags := dialog.Validate(tree)
		assert.False(t, dialog.HasErrors(diags), "tree %s: %v", id, diags)
	}

	// And the objective chain has to be internally consistent.
	ids := map[string]bool{}
	for _, o := range s.Objectives {
		ids[o.ID] = true
	}
	for _, o := range s.Objectives {
		for _, c := range o.DiscoveryConditions {
			if c.Type == quest.ConditionObjective {
				assert.True(t, ids[c.ID], "objective %s depends on unknown %s", o.ID, c.ID)
			}
		}
	}
}

func packFS(objectives string, dialogs map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"objectives.json": {Data: []byte(objectives)},
	}
	for name, body := range dialogs {
		fsys["dialogs/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	if dialogs == nil {
		fsys["dialogs/.keep"] = &fstest.MapFile{Data: nil}
	}
	return fsys
}

func TestLoadRejectsDuplicateObjectiveIDs(t *testing.T) {
	fsys := packFS(`[
		{"id":"a","title":"A","description":"","status":"active","category":"main","order":1},
		{"id":"a","title":"A again","description":"","status":"active","category":"main","order":2}
	]`, nil)
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsBothProgressKinds(t *testing.T) {
	fsys := packFS(`[
		{"id":"a","title":"A","description":"","status":"active","category":"main","order":1,
		 "maxProgress":10,"subtasks":[{"id":"s1","description":"one"}]}
	]`, nil)
	_, err := Load(fsys)
	require.Error(t, err)
}

func TestLoadRejectsUnknownConditionType(t *testing.T) {
	fsys := packFS(`[
		{"id":"a","title":"A","description":"","status":"hidden","category":"main","order":1,
		 "discoveryConditions":[{"type":"weather","id":"rain"}]}
	]`, nil)
	_, err := Load(fsys)
	require.Error(t, err)
}

func TestLoadRejectsDuplicateTreeIDs(t *testing.T) {
	tree := `{"id":"npc","characterName":"N","startNodeId":"a",
		"nodes":{"a":{"id":"a","message":"hi","responses":[{"text":"bye","nextNodeId":null}]}}}`
	fsys := packFS(`[]`, map[string]string{
		"one.json": tree,
		"two.json": tree,
	})
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tree id")
}

func TestTreeUnknownID(t *testing.T) {
	s, err := Load(packFS(`[]`, nil))
	require.NoError(t, err)
	_, err = s.Tree("nobody")
	require.Error(t, err)
}
