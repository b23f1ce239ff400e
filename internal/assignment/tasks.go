package assignment

import (
	"sort"
	"strings"

	"workshop-console/backend/pkg/models"
)

// TaskKeySeparator joins unit, product and stage ids into a stable task key.
const TaskKeySeparator = "_"

// StageTaskKey builds the key identifying one unfinished stage.
func StageTaskKey(unitID, productID, stageID string) string {
	return strings.Join([]string{unitID, productID, stageID}, TaskKeySeparator)
}

// BuildTasks projects every unfinished stage of every open unit, plus every
// unfinished standalone task, into the uniform shape the strategies operate
// on. The result is sorted by key for deterministic suggestion output.
func BuildTasks(units []models.Unit, standalone []models.StandaloneTask) []models.Task {
	var tasks []models.Task

	for _, unit := range units {
		if !unit.Status.IsOpen() {
			continue
		}
		for productID, product := range unit.Products {
			for stageID, stage := range product.Stages {
				if stage.IsDone {
					continue
				}
				current := ""
				if len(stage.AssigneeIDs) > 0 {
					current = stage.AssigneeIDs[0]
				}
				stageName := ""
				if len(stage.TemplateNames) > 0 {
					stageName = stage.TemplateNames[0]
				}
				tasks = append(tasks, models.Task{
					Key:               StageTaskKey(unit.ID, productID, stageID),
					UnitKind:          unit.Kind,
					UnitID:            unit.ID,
					UnitCode:          unit.Code,
					ProductID:         productID,
					ProductName:       product.Name,
					StageID:           stageID,
					StageName:         stageName,
					CustomerName:      unit.CustomerName,
					CurrentAssigneeID: current,
					DepartmentCode:    stage.DepartmentCode,
				})
			}
		}
	}

	for _, task := range standalone {
		if task.IsDone {
			continue
		}
		tasks = append(tasks, models.Task{
			Key:               task.ID,
			ProductName:       task.Title,
			CurrentAssigneeID: task.AssigneeID,
			Deadline:          task.Deadline,
			Standalone:        true,
		})
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key < tasks[j].Key })
	return tasks
}
