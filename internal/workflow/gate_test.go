package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-console/backend/pkg/models"
)

func claimFixture(status models.UnitStatus, withImages bool, stagesDone ...bool) models.Unit {
	stages := make(map[string]models.Stage, len(stagesDone))
	for i, done := range stagesDone {
		stages[string(rune('a'+i))] = models.Stage{IsDone: done}
	}
	var images []string
	if withImages {
		images = []string{"ref.jpg"}
	}
	return models.Unit{
		ID:     "c1",
		Kind:   models.UnitKindWarrantyClaim,
		Code:   "WC-001",
		Status: status,
		Products: map[string]models.Product{
			"p1": {Name: "chair", Quantity: 1, Images: images, Stages: stages},
		},
	}
}

func TestConfirmRequiresImages(t *testing.T) {
	t.Run("denied without images", func(t *testing.T) {
		unit := claimFixture(models.StatusPending, false, false)
		err := CheckTransition(unit, models.StatusConfirmed)
		var denied *TransitionDeniedError
		require.ErrorAs(t, err, &denied)
		assert.Equal(t, ReasonMissingImages, denied.Reason)
	})

	t.Run("allowed with images", func(t *testing.T) {
		unit := claimFixture(models.StatusPending, true, false)
		assert.NoError(t, CheckTransition(unit, models.StatusConfirmed))
	})
}

func TestStageGatedTransitions(t *testing.T) {
	for _, target := range []models.UnitStatus{models.StatusOnHold, models.StatusCompleted} {
		t.Run(string(target), func(t *testing.T) {
			t.Run("denied while stages incomplete", func(t *testing.T) {
				unit := claimFixture(models.StatusInProgress, true, true, false)
				err := CheckTransition(unit, target)
				var denied *TransitionDeniedError
				require.ErrorAs(t, err, &denied)
				assert.Equal(t, ReasonIncompleteStages, denied.Reason)
			})

			t.Run("denied with zero stages", func(t *testing.T) {
				unit := claimFixture(models.StatusInProgress, true)
				err := CheckTransition(unit, target)
				var denied *TransitionDeniedError
				require.ErrorAs(t, err, &denied)
				assert.Equal(t, ReasonIncompleteStages, denied.Reason)
			})

			t.Run("allowed when all stages done", func(t *testing.T) {
				unit := claimFixture(models.StatusInProgress, true, true, true)
				assert.NoError(t, CheckTransition(unit, target))
			})
		})
	}
}

func TestOnHoldToCompletedUngated(t *testing.T) {
	// Already gated on entry to on_hold; no second check.
	unit := claimFixture(models.StatusOnHold, true, false)
	assert.NoError(t, CheckTransition(unit, models.StatusCompleted))
}

func TestCancellation(t *testing.T) {
	allowed := []models.UnitStatus{models.StatusPending, models.StatusConfirmed, models.StatusOnHold}
	for _, from := range allowed {
		unit := claimFixture(from, true, true)
		assert.NoError(t, CheckTransition(unit, models.StatusCancelled), "from %s", from)
	}

	blocked := []models.UnitStatus{models.StatusInProgress, models.StatusCompleted}
	for _, from := range blocked {
		unit := claimFixture(from, true, true)
		err := CheckTransition(unit, models.StatusCancelled)
		var denied *TransitionDeniedError
		require.ErrorAs(t, err, &denied, "from %s", from)
		assert.Equal(t, ReasonNotForward, denied.Reason)
	}
}

func TestBackwardMovesDenied(t *testing.T) {
	unit := claimFixture(models.StatusCompleted, true, true)
	err := CheckTransition(unit, models.StatusPending)
	var denied *TransitionDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, ReasonNotForward, denied.Reason)
}

func TestClaimScenario(t *testing.T) {
	// One product, two stages, one done: 50%, on_hold denied.
	unit := claimFixture(models.StatusInProgress, true, true, false)
	progress := UnitProgress(unit)
	assert.Equal(t, Progress{Completed: 1, Total: 2}, progress)
	assert.Equal(t, 50, progress.Percent())

	var denied *TransitionDeniedError
	require.ErrorAs(t, CheckTransition(unit, models.StatusOnHold), &denied)

	// Mark the second stage done: on_hold now succeeds.
	p := unit.Products["p1"]
	s := p.Stages["b"]
	s.IsDone = true
	p.Stages["b"] = s
	unit.Products["p1"] = p
	assert.NoError(t, CheckTransition(unit, models.StatusOnHold))
}
