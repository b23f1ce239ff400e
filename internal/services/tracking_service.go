package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"workshop-console/backend/internal/logging"
	"workshop-console/backend/internal/store"
	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

// ErrUnitNotFound is returned when the addressed order or claim is absent.
var ErrUnitNotFound = fmt.Errorf("unit not found")

// TrackingService loads units of work, aggregates their stage progress and
// drives status transitions through the gate.
type TrackingService struct {
	store       store.Store
	logger      *logging.Logger
	transitions metric.Int64Counter
}

// NewTrackingService creates a TrackingService.
func NewTrackingService(st store.Store, logger *logging.Logger) *TrackingService {
	counter, _ := otel.Meter("workshop-console").Int64Counter("status_transitions_applied")
	return &TrackingService{store: st, logger: logger, transitions: counter}
}

// GetUnit loads one order or warranty claim.
func (s *TrackingService) GetUnit(ctx context.Context, kind models.UnitKind, unitID string) (models.Unit, error) {
	value, err := s.store.Get(ctx, store.UnitPath(kind, unitID))
	if err != nil {
		return models.Unit{}, fmt.Errorf("read %s %s: %w", kind, unitID, err)
	}
	if value == nil {
		return models.Unit{}, fmt.Errorf("%s %s: %w", kind, unitID, ErrUnitNotFound)
	}
	var unit models.Unit
	if err := store.Decode(value, &unit); err != nil {
		return models.Unit{}, fmt.Errorf("decode %s %s: %w", kind, unitID, err)
	}
	unit.ID = unitID
	unit.Kind = kind
	return unit, nil
}

// ListUnits loads all units of the given kind, sorted by id.
func (s *TrackingService) ListUnits(ctx context.Context, kind models.UnitKind) ([]models.Unit, error) {
	value, err := s.store.Get(ctx, store.UnitRoot(kind))
	if err != nil {
		return nil, fmt.Errorf("read %ss: %w", kind, err)
	}
	byID := make(map[string]models.Unit)
	if value != nil {
		if err := store.Decode(value, &byID); err != nil {
			return nil, fmt.Errorf("decode %ss: %w", kind, err)
		}
	}
	units := make([]models.Unit, 0, len(byID))
	for _, id := range sortedIDs(byID) {
		unit := byID[id]
		unit.ID = id
		unit.Kind = kind
		units = append(units, unit)
	}
	return units, nil
}

// SaveUnit validates every product and stage and writes the whole unit
// document. Invalid input never reaches the store.
func (s *TrackingService) SaveUnit(ctx context.Context, unit models.Unit, cat *workflow.Catalog) error {
	for productID, product := range unit.Products {
		if err := workflow.ValidateProduct(product, cat); err != nil {
			return fmt.Errorf("product %s: %w", productID, err)
		}
		for stageID, stage := range product.Stages {
			product.Stages[stageID] = workflow.ResolveTemplateNames(stage, cat)
		}
	}
	unit.UpdatedAt = time.Now().UnixMilli()
	if unit.CreatedAt == 0 {
		unit.CreatedAt = unit.UpdatedAt
	}
	if err := s.store.Set(ctx, store.UnitPath(unit.Kind, unit.ID), unit); err != nil {
		return fmt.Errorf("write %s %s: %w", unit.Kind, unit.ID, err)
	}
	return nil
}

// Progress computes the live completed/total stage counts for a unit.
func (s *TrackingService) Progress(ctx context.Context, kind models.UnitKind, unitID string) (workflow.Progress, error) {
	unit, err := s.GetUnit(ctx, kind, unitID)
	if err != nil {
		return workflow.Progress{}, err
	}
	return workflow.UnitProgress(unit), nil
}

// SetStageDone toggles one stage's done flag. Disjoint stage writes from
// concurrent users race safely because each write addresses its own path.
func (s *TrackingService) SetStageDone(ctx context.Context, kind models.UnitKind, unitID, productID, stageID string, done bool) error {
	stagePath := store.StagePath(kind, unitID, productID, stageID)
	updates := map[string]any{
		store.Join(stagePath, "isDone"):    done,
		store.Join(stagePath, "updatedAt"): time.Now().UnixMilli(),
	}
	if err := s.store.Update(ctx, updates); err != nil {
		return fmt.Errorf("update stage %s: %w", stageID, err)
	}
	return nil
}

// AttemptTransition validates and performs a status transition. The write is
// one atomic {status, updatedAt} update; nothing is ever partially applied.
// Retrying an already-applied transition is a safe no-op: when the current
// status already equals the target the call succeeds without writing.
func (s *TrackingService) AttemptTransition(ctx context.Context, kind models.UnitKind, unitID string, target models.UnitStatus) (models.Unit, error) {
	unit, err := s.GetUnit(ctx, kind, unitID)
	if err != nil {
		return models.Unit{}, err
	}
	if unit.Status == target {
		s.logger.Debug("transition already applied", "unit", unitID, "status", target)
		return unit, nil
	}
	if err := workflow.CheckTransition(unit, target); err != nil {
		return models.Unit{}, err
	}

	now := time.Now().UnixMilli()
	updates := map[string]any{
		store.UnitStatusPath(kind, unitID):    target,
		store.UnitUpdatedAtPath(kind, unitID): now,
	}
	if err := s.store.Update(ctx, updates); err != nil {
		return models.Unit{}, fmt.Errorf("apply transition %s -> %s on %s: %w", unit.Status, target, unitID, err)
	}

	s.transitions.Add(ctx, 1)
	s.logger.Info("status transition applied",
		"kind", kind, "unit", unitID, "from", unit.Status, "to", target)
	unit.Status = target
	unit.UpdatedAt = now
	return unit, nil
}
