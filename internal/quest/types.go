package quest

import "time"

type Status string

const (
	StatusHidden    Status = "hidden"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusHidden, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryMain      Category = "main"
	CategorySecondary Category = "secondary"
)

func (c Category) IsValid() bool {
	return c == CategoryMain || c == CategorySecondary
}

type ConditionType string

const (
	ConditionObjective ConditionType = "objective"
	ConditionResource  ConditionType = "resource"
	ConditionLocation  ConditionType = "location"
	ConditionFeature   ConditionType = "feature"
	ConditionCustom    ConditionType = "custom"
)

// Condition gates a hidden objective. All conditions of an objective must
// hold before it becomes active.
type Condition struct {
	Type  ConditionType `json:"type"`
	ID    string        `json:"id"`
	Value int           `json:"value,omitempty"`
}

type Subtask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Objective is one quest/goal. Progress is tracked either as a subtask
// checklist or as a numeric current/max pair, never both.
type Objective struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Category    Category `json:"category"`
	Order       int      `json:"order"`

	Subtasks        []Subtask `json:"subtasks,omitempty"`
	CurrentProgress int       `json:"currentProgress,omitempty"`
	MaxProgress     int       `json:"maxProgress,omitempty"`

	DiscoveryConditions []Condition `json:"discoveryConditions,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (o *Objective) HasSubtasks() bool {
	return len(o.Subtasks) > 0
}

func (o *Objective) HasProgress() bool {
	return o.MaxProgress > 0
}

func (o *Objective) subtasksDone() bool {
	for i := range o.Subtasks {
		if !o.Subtasks[i].Completed {
			return false
		}
	}
	return len(o.Subtasks) > 0
}

// SavedProgress is the persisted mutable slice of one objective. Everything
// else (title, description, order, conditions) always comes from content.
type SavedProgress struct {
	Status          Status
	CurrentProgress int
	CompletedAt     *time.Time
	Subtasks        map[string]bool
}
