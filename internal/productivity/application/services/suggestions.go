package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
)

// Suggestion types.
const (
	SuggestionUrgent        = "urgent"
	SuggestionQuickWin      = "quick_win"
	SuggestionFocusTime     = "focus_time"
	SuggestionCategoryFocus = "category_focus"
	SuggestionMotivation    = "motivation"
)

// Focus hours, inclusive, in the caller's local time.
const (
	FocusHourStart = 9
	FocusHourEnd   = 11
)

// MotivationalQuotes is the fixed set the motivation suggestion picks from.
var MotivationalQuotes = []string{
	"Small daily steps lead to big achievements! 🚀",
	"Every completed task is a victory. Keep it up! 💪",
	"Organize your tasks, organize your mind! 🧠",
	"Productivity is choosing what matters. You're on the right track! ✨",
}

// Suggestion is an advisory entry shown to the user.
type Suggestion struct {
	Type    string  `json:"type"`
	Icon    string  `json:"icon"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Action  *string `json:"action"`
}

// QuotePicker returns an index in [0, n).
type QuotePicker func(n int) int

// RandomQuotePicker picks uniformly at random.
func RandomQuotePicker(n int) int {
	return rand.IntN(n)
}

// SuggestionEngine derives suggestions from the pending task set.
type SuggestionEngine struct {
	pick   QuotePicker
	quotes []string
}

// NewSuggestionEngine creates an engine. A nil picker picks at random.
func NewSuggestionEngine(pick QuotePicker) *SuggestionEngine {
	if pick == nil {
		pick = RandomQuotePicker
	}
	return &SuggestionEngine{pick: pick, quotes: MotivationalQuotes}
}

// Suggest evaluates every rule in order and returns the ones that apply.
// The motivation entry is always last.
func (e *SuggestionEngine) Suggest(pending []*task.Task, now time.Time) []Suggestion {
	suggestions := make([]Suggestion, 0, 5)

	if n := countUrgentWithDueDate(pending); n > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestionUrgent,
			Icon:    "⚠️",
			Title:   "Urgent Tasks!",
			Message: fmt.Sprintf("You have %d urgent task(s). Start with them!", n),
			Action:  action("filter_urgent"),
		})
	}

	if n := countQuickWins(pending); n > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestionQuickWin,
			Icon:    "⚡",
			Title:   "Quick Wins Available",
			Message: fmt.Sprintf("%d quick task(s) (≤%dmin). Build some momentum!", n, value_objects.QuickWinThreshold),
			Action:  action("show_quick_tasks"),
		})
	}

	if hour := now.Hour(); hour >= FocusHourStart && hour <= FocusHourEnd {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestionFocusTime,
			Icon:    "🎯",
			Title:   "Prime Focus Time",
			Message: "Mornings are ideal for complex tasks. Make the most of your energy!",
			Action:  action("filter_high_priority"),
		})
	}

	if category, n := topCategory(pending); n > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestionCategoryFocus,
			Icon:    "📂",
			Title:   "Category Focus",
			Message: fmt.Sprintf(`You have %d tasks in "%s". How about focusing on them?`, n, category),
			Action:  action("filter_category_" + category),
		})
	}

	suggestions = append(suggestions, Suggestion{
		Type:    SuggestionMotivation,
		Icon:    "💡",
		Title:   "Tip of the Day",
		Message: e.quote(),
	})
	return suggestions
}

func (e *SuggestionEngine) quote() string {
	i := e.pick(len(e.quotes))
	if i < 0 || i >= len(e.quotes) {
		i = 0
	}
	return e.quotes[i]
}

func countUrgentWithDueDate(tasks []*task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Priority() == value_objects.PriorityUrgent && t.DueDate() != nil {
			n++
		}
	}
	return n
}

func countQuickWins(tasks []*task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Estimate().IsQuickWin() {
			n++
		}
	}
	return n
}

// topCategory returns the most frequent category. Ties go to the category
// seen first.
func topCategory(tasks []*task.Task) (string, int) {
	counts := make(map[string]int)
	var order []string
	for _, t := range tasks {
		c := t.Category()
		if c == "" {
			continue
		}
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		counts[c]++
	}

	best, bestCount := "", 0
	for _, c := range order {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best, bestCount
}

func action(name string) *string {
	return &name
}
