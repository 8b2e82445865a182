package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"outpost/internal/quest"
)

// Outpost theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconBase    = "🏕️"
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTalk    = "💬"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconPin     = "📌"
	IconScroll  = "📜"
	IconGear    = "⚙️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	NPCLine    = lipgloss.NewStyle().Foreground(cAccent)
	PlayerLine = lipgloss.NewStyle().Foreground(cGood)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status quest.Status) string {
	switch status {
	case quest.StatusCompleted:
		return Good.Render("completed")
	case quest.StatusActive:
		return H2.Render("active")
	case quest.StatusHidden:
		return Muted.Render("hidden")
	default:
		return Muted.Render(string(status))
	}
}

func CategoryText(cat quest.Category) string {
	if cat == quest.CategoryMain {
		return Gold.Render("main")
	}
	return Muted.Render("secondary")
}

// ConditionText describes a discovery condition for content tooling.
// Player-facing views never show these; hidden objectives stay hidden.
func ConditionText(c quest.Condition) string {
	switch c.Type {
	case quest.ConditionObjective:
		return "after " + c.ID
	case quest.ConditionResource:
		return fmt.Sprintf("%s >= %d", c.ID, c.Value)
	case quest.ConditionLocation:
		return "explored " + c.ID
	case quest.ConditionFeature:
		return "used " + c.ID
	default:
		return string(c.Type) + " " + c.ID
	}
}

// ProgressBar renders a fixed-width bar like [██████----] 12/30.
func ProgressBar(current, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	if current < 0 {
		current = 0
	}
	if current > max {
		current = max
	}
	filled := current * width / max
	bar := strings.Repeat("█", filled) + strings.Repeat("─", width-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, current, max)
}
