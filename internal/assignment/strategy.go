package assignment

import (
	"fmt"
	"math/rand"

	"workshop-console/backend/pkg/models"
)

// Strategy identifies one of the seven assignee selection strategies.
type Strategy int

const (
	// StrategyKeepCurrent keeps the current assignee for continuity.
	StrategyKeepCurrent Strategy = 1
	// StrategyFirstAssignee routes to the first-ever assignee of the
	// unit's stage chain. The data model keeps no assignment history, so
	// this resolves to the current assignee; only the audit reason differs.
	StrategyFirstAssignee Strategy = 2
	// StrategyPreviousStage routes to whoever handled the preceding stage.
	// Same data-model limitation as StrategyFirstAssignee.
	StrategyPreviousStage Strategy = 3
	// StrategyRandom picks uniformly across the workload index.
	StrategyRandom Strategy = 4
	// StrategyLeastLoaded picks the least loaded member (index head).
	StrategyLeastLoaded Strategy = 5
	// StrategyAssigneeDecides makes no suggestion; the current assignee
	// decides.
	StrategyAssigneeDecides Strategy = 6
	// StrategyManagerDecides makes no suggestion; the department manager
	// decides.
	StrategyManagerDecides Strategy = 7
)

// Reason strings attached to suggestions, distinct per strategy for auditing.
const (
	ReasonContinuity     = "keep current assignee for continuity"
	ReasonFirstAssignee  = "route to first assignee in the stage chain"
	ReasonPreviousStage  = "route to previous stage's assignee"
	ReasonManual         = "manual"
	ReasonManagerDecides = "deferred to department manager"
	ReasonOverride       = "manual override"
)

// Suggestion is the engine's proposed assignee for one task.
type Suggestion struct {
	TaskKey    string `json:"taskKey"`
	AssigneeID string `json:"assigneeId"`
	Reason     string `json:"reason"`
}

// ApplyStrategy produces one suggestion per task under the given strategy.
// Strategies 4 and 5 depend on the workload index (and, for 4, on rng); the
// caller pins the seed and the index snapshot to make them reproducible.
// All other strategies are pure over the task list.
func ApplyStrategy(strategy Strategy, tasks []models.Task, index []models.WorkloadEntry, rng *rand.Rand) ([]Suggestion, error) {
	if strategy < StrategyKeepCurrent || strategy > StrategyManagerDecides {
		return nil, fmt.Errorf("unknown strategy %d", strategy)
	}
	if strategy == StrategyRandom && rng == nil {
		return nil, fmt.Errorf("strategy %d needs a random source", strategy)
	}

	suggestions := make([]Suggestion, 0, len(tasks))
	for _, task := range tasks {
		s := Suggestion{TaskKey: task.Key, AssigneeID: task.CurrentAssigneeID}
		switch strategy {
		case StrategyKeepCurrent:
			s.Reason = ReasonContinuity
		case StrategyFirstAssignee:
			s.Reason = ReasonFirstAssignee
		case StrategyPreviousStage:
			s.Reason = ReasonPreviousStage
		case StrategyRandom:
			if len(index) > 0 {
				pick := index[rng.Intn(len(index))]
				s.AssigneeID = pick.MemberID
				s.Reason = fmt.Sprintf("random pick: %s", pick.MemberName)
			}
		case StrategyLeastLoaded:
			if len(index) > 0 {
				pick := index[0]
				s.AssigneeID = pick.MemberID
				s.Reason = fmt.Sprintf("least loaded: %s (%d active)", pick.MemberName, pick.ActiveTasks)
			}
		case StrategyAssigneeDecides:
			s.Reason = ReasonManual
		case StrategyManagerDecides:
			s.Reason = ReasonManagerDecides
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

// Override replaces one suggestion's assignee with a manual edit and
// downgrades its reason accordingly. Unknown keys are ignored.
func Override(suggestions []Suggestion, taskKey, assigneeID string) []Suggestion {
	for i := range suggestions {
		if suggestions[i].TaskKey == taskKey {
			suggestions[i].AssigneeID = assigneeID
			suggestions[i].Reason = ReasonOverride
		}
	}
	return suggestions
}
