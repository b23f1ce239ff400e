package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workshop-console/backend/pkg/models"
)

func productWithStages(done ...bool) models.Product {
	stages := make(map[string]models.Stage, len(done))
	for i, d := range done {
		stages[string(rune('a'+i))] = models.Stage{IsDone: d}
	}
	return models.Product{Name: "p", Quantity: 1, Stages: stages}
}

func TestProductProgress(t *testing.T) {
	t.Run("counts done stages", func(t *testing.T) {
		p := ProductProgress(productWithStages(true, false, true))
		assert.Equal(t, Progress{Completed: 2, Total: 3}, p)
	})

	t.Run("zero stages report zero percent", func(t *testing.T) {
		p := ProductProgress(models.Product{})
		assert.Equal(t, Progress{}, p)
		assert.Equal(t, 0, p.Percent())
		assert.False(t, p.AllDone())
	})

	t.Run("completed never exceeds total", func(t *testing.T) {
		p := ProductProgress(productWithStages(true, true, false, false, true))
		assert.LessOrEqual(t, p.Completed, p.Total)
	})
}

func TestUnitProgress(t *testing.T) {
	unit := models.Unit{
		Products: map[string]models.Product{
			"p1": productWithStages(true, false),
			"p2": productWithStages(true),
		},
	}
	p := UnitProgress(unit)
	assert.Equal(t, Progress{Completed: 2, Total: 3}, p)
	assert.Equal(t, 67, p.Percent())
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 50, Progress{Completed: 1, Total: 2}.Percent())
	assert.Equal(t, 33, Progress{Completed: 1, Total: 3}.Percent())
	assert.Equal(t, 67, Progress{Completed: 2, Total: 3}.Percent())
	assert.Equal(t, 100, Progress{Completed: 3, Total: 3}.Percent())
}

func TestAllDone(t *testing.T) {
	assert.False(t, Progress{}.AllDone(), "empty unit must not count as done")
	assert.False(t, Progress{Completed: 1, Total: 2}.AllDone())
	assert.True(t, Progress{Completed: 2, Total: 2}.AllDone())
}
