// Package assignment implements the workload index and the seven task
// assignment strategies used by the technician assignment view.
package assignment

import (
	"sort"

	"workshop-console/backend/pkg/models"
)

// BuildWorkloadIndex computes the per-member count of currently unfinished
// assigned work across all open units and standalone tasks. Every member in
// the snapshot appears, so idle workers stay selectable. The result is
// sorted ascending by active task count with ties broken by member id;
// strategy 5 depends on that ordering.
func BuildWorkloadIndex(members []models.Member, units []models.Unit, tasks []models.StandaloneTask) []models.WorkloadEntry {
	byID := make(map[string]*models.WorkloadEntry, len(members))
	index := make([]models.WorkloadEntry, 0, len(members))
	for _, m := range members {
		index = append(index, models.WorkloadEntry{MemberID: m.ID, MemberName: m.Name})
	}
	for i := range index {
		byID[index[i].MemberID] = &index[i]
	}

	for _, unit := range units {
		if !unit.Status.IsOpen() {
			continue
		}
		for _, product := range unit.Products {
			for _, stage := range product.Stages {
				if stage.IsDone {
					continue
				}
				for _, memberID := range stage.AssigneeIDs {
					if entry, ok := byID[memberID]; ok {
						entry.ActiveTasks++
					}
				}
			}
		}
	}

	for _, task := range tasks {
		if task.IsDone || task.AssigneeID == "" {
			continue
		}
		if entry, ok := byID[task.AssigneeID]; ok {
			entry.ActiveTasks++
		}
	}

	sort.Slice(index, func(i, j int) bool {
		if index[i].ActiveTasks != index[j].ActiveTasks {
			return index[i].ActiveTasks < index[j].ActiveTasks
		}
		return index[i].MemberID < index[j].MemberID
	})
	return index
}
