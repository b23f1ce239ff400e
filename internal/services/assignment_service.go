package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"workshop-console/backend/internal/assignment"
	"workshop-console/backend/internal/logging"
	"workshop-console/backend/internal/store"
	"workshop-console/backend/pkg/models"
)

// ErrNothingToCommit is returned when an assignment batch contains no
// accepted pairs; the store is left untouched.
var ErrNothingToCommit = errors.New("nothing to commit")

// ErrTaskNotFound is returned when the addressed standalone task is absent.
var ErrTaskNotFound = errors.New("standalone task not found")

// AssignmentPair is one accepted (task, assignee) decision in a commit
// batch.
type AssignmentPair struct {
	Task       models.Task `json:"task"`
	AssigneeID string      `json:"assigneeId"`
}

// AssignmentService builds the workload index, computes suggestions under a
// strategy and commits accepted assignments as one atomic multi-path write.
type AssignmentService struct {
	store    store.Store
	tracking *TrackingService
	logger   *logging.Logger
	commits  metric.Int64Counter
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(st store.Store, tracking *TrackingService, logger *logging.Logger) *AssignmentService {
	counter, _ := otel.Meter("workshop-console").Int64Counter("assignments_committed")
	return &AssignmentService{store: st, tracking: tracking, logger: logger, commits: counter}
}

// OpenUnits loads all orders and warranty claims still contributing to the
// workload (everything not completed or cancelled).
func (s *AssignmentService) OpenUnits(ctx context.Context) ([]models.Unit, error) {
	var open []models.Unit
	for _, kind := range []models.UnitKind{models.UnitKindOrder, models.UnitKindWarrantyClaim} {
		units, err := s.tracking.ListUnits(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, unit := range units {
			if unit.Status.IsOpen() {
				open = append(open, unit)
			}
		}
	}
	return open, nil
}

// ListTasks loads all standalone tasks, sorted by id.
func (s *AssignmentService) ListTasks(ctx context.Context) ([]models.StandaloneTask, error) {
	value, err := s.store.Get(ctx, store.TasksRoot)
	if err != nil {
		return nil, fmt.Errorf("read standalone tasks: %w", err)
	}
	byID := make(map[string]models.StandaloneTask)
	if value != nil {
		if err := store.Decode(value, &byID); err != nil {
			return nil, fmt.Errorf("decode standalone tasks: %w", err)
		}
	}
	tasks := make([]models.StandaloneTask, 0, len(byID))
	for _, id := range sortedIDs(byID) {
		task := byID[id]
		task.ID = id
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// WorkloadIndex recomputes the per-member active task counts from the live
// tree. Only active members participate; the index is never persisted.
func (s *AssignmentService) WorkloadIndex(ctx context.Context) ([]models.WorkloadEntry, error) {
	cat, err := LoadCatalog(ctx, s.store)
	if err != nil {
		return nil, err
	}
	units, err := s.OpenUnits(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return assignment.BuildWorkloadIndex(cat.ActiveMembers(), units, tasks), nil
}

// Suggest projects the open work into assignable tasks and applies the
// strategy. A non-nil seed pins strategy 4's randomness so a suggestion run
// can be reproduced.
func (s *AssignmentService) Suggest(ctx context.Context, strategy assignment.Strategy, seed *int64) ([]models.Task, []assignment.Suggestion, error) {
	units, err := s.OpenUnits(ctx)
	if err != nil {
		return nil, nil, err
	}
	standalone, err := s.ListTasks(ctx)
	if err != nil {
		return nil, nil, err
	}
	index, err := s.WorkloadIndex(ctx)
	if err != nil {
		return nil, nil, err
	}

	tasks := assignment.BuildTasks(units, standalone)
	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	suggestions, err := assignment.ApplyStrategy(strategy, tasks, index, rng)
	if err != nil {
		return nil, nil, err
	}
	return tasks, suggestions, nil
}

// CommitAssignments applies all accepted pairs as one atomic multi-path
// write: each stage gets a single-assignee overwrite of its member list,
// each standalone task gets its assignee field replaced. An empty batch is
// a no-op surfaced as ErrNothingToCommit.
func (s *AssignmentService) CommitAssignments(ctx context.Context, pairs []AssignmentPair) (int, error) {
	updates := make(map[string]any)
	for _, pair := range pairs {
		if pair.AssigneeID == "" {
			continue
		}
		if pair.Task.Standalone {
			updates[store.TaskAssigneePath(pair.Task.Key)] = pair.AssigneeID
		} else {
			path := store.StageMembersPath(pair.Task.UnitKind, pair.Task.UnitID, pair.Task.ProductID, pair.Task.StageID)
			updates[path] = []string{pair.AssigneeID}
		}
	}
	if len(updates) == 0 {
		return 0, ErrNothingToCommit
	}
	if err := s.store.Update(ctx, updates); err != nil {
		return 0, fmt.Errorf("commit %d assignments: %w", len(updates), err)
	}
	s.commits.Add(ctx, int64(len(updates)))
	s.logger.Info("assignments committed", "count", len(updates))
	return len(updates), nil
}

// CreateTask creates a standalone task.
func (s *AssignmentService) CreateTask(ctx context.Context, task models.StandaloneTask) (models.StandaloneTask, error) {
	if task.Title == "" {
		return models.StandaloneTask{}, fmt.Errorf("task title is required")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now().UnixMilli()
	if err := s.store.Set(ctx, store.TaskPath(task.ID), task); err != nil {
		return models.StandaloneTask{}, fmt.Errorf("write task %s: %w", task.ID, err)
	}
	return task, nil
}

// UpdateTask overwrites an existing standalone task's editable fields.
func (s *AssignmentService) UpdateTask(ctx context.Context, task models.StandaloneTask) error {
	current, err := s.store.Get(ctx, store.TaskPath(task.ID))
	if err != nil {
		return fmt.Errorf("read task %s: %w", task.ID, err)
	}
	if current == nil {
		return fmt.Errorf("task %s: %w", task.ID, ErrTaskNotFound)
	}
	updates := map[string]any{
		store.Join(store.TaskPath(task.ID), "title"):       task.Title,
		store.Join(store.TaskPath(task.ID), "description"): task.Description,
		store.Join(store.TaskPath(task.ID), "assignee"):    task.AssigneeID,
		store.Join(store.TaskPath(task.ID), "deadline"):    task.Deadline,
		store.Join(store.TaskPath(task.ID), "isDone"):      task.IsDone,
		store.Join(store.TaskPath(task.ID), "type"):        task.Type,
	}
	if err := s.store.Update(ctx, updates); err != nil {
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes a standalone task.
func (s *AssignmentService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.store.Remove(ctx, store.TaskPath(taskID)); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}
	return nil
}
