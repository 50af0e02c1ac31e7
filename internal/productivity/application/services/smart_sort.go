// Package services holds the stateless engines that rank and advise on the
// pending task set.
package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

// SmartSortConfig sets the bonuses added on top of the priority weight.
type SmartSortConfig struct {
	OverdueBonus     int
	DueTodayBonus    int
	DueTomorrowBonus int
	DueSoonBonus     int
	DueSoonDays      int
	QuickWinBonus    int
}

// DefaultSmartSortConfig returns the standard scoring table.
func DefaultSmartSortConfig() SmartSortConfig {
	return SmartSortConfig{
		OverdueBonus:     150,
		DueTodayBonus:    120,
		DueTomorrowBonus: 90,
		DueSoonBonus:     60,
		DueSoonDays:      3,
		QuickWinBonus:    30,
	}
}

// ScoredTask pairs a task with its smart-sort score.
type ScoredTask struct {
	Task        *task.Task
	Score       int
	Explanation string
}

// SmartSortEngine ranks tasks by priority, due date proximity and effort.
type SmartSortEngine struct {
	config SmartSortConfig
}

// NewSmartSortEngine creates a new engine with the given configuration.
func NewSmartSortEngine(cfg SmartSortConfig) *SmartSortEngine {
	return &SmartSortEngine{config: cfg}
}

// Score computes a score and human-readable explanation for t at now.
func (e *SmartSortEngine) Score(t *task.Task, now time.Time) (int, string) {
	priority := t.Priority().Weight()
	due := e.dueBonus(t.DueDate(), now)
	quick := 0
	if t.Estimate().IsQuickWin() {
		quick = e.config.QuickWinBonus
	}

	explanation := fmt.Sprintf("priority=%d due=%d quick_win=%d", priority, due, quick)
	return priority + due + quick, explanation
}

// Sort returns tasks ordered by score, highest first. Equal scores keep their
// input order.
func (e *SmartSortEngine) Sort(tasks []*task.Task, now time.Time) []ScoredTask {
	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		score, explanation := e.Score(t, now)
		scored = append(scored, ScoredTask{Task: t, Score: score, Explanation: explanation})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (e *SmartSortEngine) dueBonus(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}

	days := DaysUntil(*due, now)
	switch {
	case days < 0:
		return e.config.OverdueBonus
	case days == 0:
		return e.config.DueTodayBonus
	case days == 1:
		return e.config.DueTomorrowBonus
	case days <= e.config.DueSoonDays:
		return e.config.DueSoonBonus
	default:
		return 0
	}
}

// DaysUntil returns the whole days from now until due, rounded down, so a
// task due one hour ago is -1 and one due in 23 hours is 0.
func DaysUntil(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}
