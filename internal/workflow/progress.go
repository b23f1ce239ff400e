package workflow

import (
	"math"

	"workshop-console/backend/pkg/models"
)

// Progress is a completed/total stage count at product or unit granularity.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns the rounded completion percentage. A product or unit with
// no stages reports 0%, never 100%.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
}

// AllDone reports whether every stage is done. Vacuous completion is
// excluded: a unit with zero stages is not considered done, so it can never
// slip through the stage-gated status transitions.
func (p Progress) AllDone() bool {
	return p.Total > 0 && p.Completed == p.Total
}

// ProductProgress counts a product's stages.
func ProductProgress(product models.Product) Progress {
	var p Progress
	for _, stage := range product.Stages {
		p.Total++
		if stage.IsDone {
			p.Completed++
		}
	}
	return p
}

// UnitProgress sums ProductProgress across all products of a unit.
func UnitProgress(unit models.Unit) Progress {
	var p Progress
	for _, product := range unit.Products {
		pp := ProductProgress(product)
		p.Completed += pp.Completed
		p.Total += pp.Total
	}
	return p
}
