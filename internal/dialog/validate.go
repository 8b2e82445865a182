package dialog

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one finding from the validation pass. Errors make a tree
// unloadable; warnings are surfaced to content authors but do not block.
type Diagnostic struct {
	Severity Severity
	NodeID   string
	Message  string
}

func (d Diagnostic) String() string {
	if d.NodeID == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: node %q: %s", d.Severity, d.NodeID, d.Message)
}

// HasErrors reports whether any diagnostic is a hard error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Authoring limits. Exceeding them is a warning, not an error: long text
// and crowded choice lists render badly but still play.
const (
	maxMessageLen  = 500
	maxResponses   = 6
	maxWarnTextLen = 200 // response text, warn only
)

// Validate runs the structural checks a tree must pass before it becomes
// navigable. Traversal never re-checks any of this.
func Validate(t *Tree) []Diagnostic {
	var diags []Diagnostic
	errf := func(nodeID, format string, args ...any) {
		diags = append(diags, Diagnostic{Severity: SeverityError, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(nodeID, format string, args ...any) {
		diags = append(diags, Diagnostic{Severity: SeverityWarning, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
	}

	if t.ID == "" {
		errf("", "tree id is required")
	}
	if t.CharacterName == "" {
		errf("", "characterName is required")
	}
	if t.StartNodeID == "" {
		errf("", "startNodeId is required")
	}
	if len(t.Nodes) == 0 {
		errf("", "tree has no nodes")
		return diags
	}
	if _, ok := t.Nodes[t.StartNodeID]; t.StartNodeID != "" && !ok {
		errf("", "start node %q does not exist", t.StartNodeID)
	}

	for key, n := range t.Nodes {
		if n.ID != key {
			warnf(key, "node id %q does not match its map key", n.ID)
		}
		if len(n.Message) > maxMessageLen {
			warnf(key, "message is %d chars (over %d); consider splitting the node", len(n.Message), maxMessageLen)
		}
		if len(n.Responses) > maxResponses {
			warnf(key, "%d responses (over %d)", len(n.Responses), maxResponses)
		}
		for i, r := range n.Responses {
			if r.Text == "" {
				errf(key, "response %d has empty text", i)
			}
			if len(r.Text) > maxWarnTextLen {
				warnf(key, "response %d text is %d chars (over %d)", i, len(r.Text), maxWarnTextLen)
			}
			if r.NextNodeID != nil {
				if _, ok := t.Nodes[*r.NextNodeID]; !ok {
					errf(key, "response %d points at missing node %q", i, *r.NextNodeID)
				}
			}
		}
	}

	if _, ok := t.Nodes[t.StartNodeID]; ok {
		reachable := reachableFrom(t, t.StartNodeID)
		if !hasTerminalPath(t, reachable) {
			errf("", "no path from %q ever reaches a terminal response", t.StartNodeID)
		}
		for key := range t.Nodes {
			if !reachable[key] {
				warnf(key, "node is unreachable from the start node")
			}
		}
	}

	return diags
}

// reachableFrom collects every node reachable from start. Cycle-safe: each
// node is expanded once.
func reachableFrom(t *Tree, start string) map[string]bool {
	visited := map[string]bool{}
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		n, ok := t.Nodes[id]
		if !ok {
			continue
		}
		for _, r := range n.Responses {
			if r.NextNodeID != nil {
				stack = append(stack, *r.NextNodeID)
			}
		}
	}
	return visited
}

// hasTerminalPath reports whether any reachable node can end the
// conversation, either through a nil-next response or by being a dead end.
func hasTerminalPath(t *Tree, reachable map[string]bool) bool {
	for id := range reachable {
		n, ok := t.Nodes[id]
		if !ok {
			continue
		}
		if len(n.Responses) == 0 {
			return true
		}
		for _, r := range n.Responses {
			if r.Terminal() {
				return true
			}
		}
	}
	return false
}
