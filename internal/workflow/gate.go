package workflow

import (
	"fmt"

	"workshop-console/backend/pkg/models"
)

// Denial reasons carried by TransitionDeniedError.
const (
	ReasonMissingImages    = "missing images"
	ReasonIncompleteStages = "incomplete stages"
	ReasonNotForward       = "not a forward move"
)

// TransitionDeniedError reports a rejected status transition together with
// the guard that failed. It is an expected, user-correctable condition.
type TransitionDeniedError struct {
	From   models.UnitStatus
	To     models.UnitStatus
	Reason string
}

func (e *TransitionDeniedError) Error() string {
	return fmt.Sprintf("transition %s -> %s denied: %s", e.From, e.To, e.Reason)
}

// CheckTransition validates a status transition for a unit of work against
// the transition table. It is pure: the caller performs the write (a single
// atomic {status, updatedAt} update) only when nil is returned.
//
//	pending    -> confirmed     every product has at least one image
//	confirmed  -> in_progress   -
//	in_progress-> on_hold       all stages done (and at least one stage)
//	in_progress-> completed     same guard; on_hold is optional
//	on_hold    -> completed     -
//	pending/confirmed/on_hold -> cancelled
//
// Requesting the status the unit already has is not a transition; callers
// treat it as an idempotent no-op before consulting the gate.
func CheckTransition(unit models.Unit, target models.UnitStatus) error {
	denied := func(reason string) error {
		return &TransitionDeniedError{From: unit.Status, To: target, Reason: reason}
	}

	switch {
	case unit.Status == models.StatusPending && target == models.StatusConfirmed:
		if !allProductsHaveImages(unit) {
			return denied(ReasonMissingImages)
		}
	case unit.Status == models.StatusConfirmed && target == models.StatusInProgress:
	case unit.Status == models.StatusInProgress && (target == models.StatusOnHold || target == models.StatusCompleted):
		if !UnitProgress(unit).AllDone() {
			return denied(ReasonIncompleteStages)
		}
	case unit.Status == models.StatusOnHold && target == models.StatusCompleted:
	case target == models.StatusCancelled:
		switch unit.Status {
		case models.StatusPending, models.StatusConfirmed, models.StatusOnHold:
		default:
			return denied(ReasonNotForward)
		}
	default:
		return denied(ReasonNotForward)
	}
	return nil
}

func allProductsHaveImages(unit models.Unit) bool {
	for _, product := range unit.Products {
		if len(product.Images) == 0 {
			return false
		}
	}
	return true
}
