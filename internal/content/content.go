// Package content loads the authored game definitions: objectives and
// dialog trees. Content is the schema source of truth; player progress is
// overlaid on top of it elsewhere.
package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"outpost/internal/dialog"
	"outpost/internal/quest"
)

// Set is one loaded content pack.
type Set struct {
	Objectives []quest.Objective
	trees      map[string]*dialog.Tree
}

// Load reads objectives.json and dialogs/*.json from the given filesystem.
// It checks required fields and id uniqueness; structural dialog-tree
// validation is the dialog engine's job at load time.
func Load(fsys fs.FS) (*Set, error) {
	s := &Set{trees: map[string]*dialog.Tree{}}

	raw, err := fs.ReadFile(fsys, "objectives.json")
	if err != nil {
		return nil, fmt.Errorf("read objectives.json: %w", err)
	}
	if err := json.Unmarshal(raw, &s.Objectives); err != nil {
		return nil, fmt.Errorf("parse objectives.json: %w", err)
	}
	if err := checkObjectives(s.Objectives); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, "dialogs")
	if err != nil {
		return nil, fmt.Errorf("read dialogs dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || !isJSON(entry.Name()) {
			continue
		}
		raw, err := fs.ReadFile(fsys, "dialogs/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read dialog %s: %w", entry.Name(), err)
		}
		var t dialog.Tree
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parse dialog %s: %w", entry.Name(), err)
		}
		if t.ID == "" {
			return nil, fmt.Errorf("dialog %s: tree id is required", entry.Name())
		}
		if _, dup := s.trees[t.ID]; dup {
			return nil, fmt.Errorf("dialog %s: duplicate tree id %q", entry.Name(), t.ID)
		}
		s.trees[t.ID] = &t
	}

	return s, nil
}

// Tree returns the raw tree definition for id. Implements dialog.Source.
func (s *Set) Tree(id string) (*dialog.Tree, error) {
	t, ok := s.trees[id]
	if !ok {
		return nil, fmt.Errorf("unknown dialog tree: %s", id)
	}
	return t, nil
}

// TreeIDs lists the available dialog trees, sorted.
func (s *Set) TreeIDs() []string {
	ids := make([]string, 0, len(s.trees))
	for id := range s.trees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func checkObjectives(defs []quest.Objective) error {
	seen := map[string]bool{}
	for i := range defs {
		o := &defs[i]
		if o.ID == "" {
			return fmt.Errorf("objective %d: id is required", i)
		}
		if seen[o.ID] {
			return fmt.Errorf("objective %q: duplicate id", o.ID)
		}
		seen[o.ID] = true
		if o.Title == "" {
			return fmt.Errorf("objective %q: title is required", o.ID)
		}
		if !o.Status.IsValid() {
			return fmt.Errorf("objective %q: invalid status %q", o.ID, o.Status)
		}
		if !o.Category.IsValid() {
			return fmt.Errorf("objective %q: invalid category %q", o.ID, o.Category)
		}
		if o.HasSubtasks() && o.HasProgress() {
			return fmt.Errorf("objective %q: subtasks and numeric progress are mutually exclusive", o.ID)
		}
		for j, st := range o.Subtasks {
			if st.ID == "" {
				return fmt.Errorf("objective %q: subtask %d: id is required", o.ID, j)
			}
		}
		for j, c := range o.DiscoveryConditions {
			switch c.Type {
			case quest.ConditionObjective, quest.ConditionResource, quest.ConditionLocation,
				quest.ConditionFeature, quest.ConditionCustom:
			default:
				return fmt.Errorf("objective %q: condition %d: unknown type %q", o.ID, j, c.Type)
			}
			if c.ID == "" {
				return fmt.Errorf("objective %q: condition %d: id is required", o.ID, j)
			}
		}
	}
	return nil
}

func isJSON(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == ".json"
}
