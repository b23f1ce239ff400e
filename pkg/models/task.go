package models

// StandaloneTask is a unit of assignable work not tied to any product.
// It participates in the workload index and assignment engine identically
// to a stage.
type StandaloneTask struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AssigneeID  string `json:"assignee,omitempty"`
	Deadline    int64  `json:"deadline,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
	IsDone      bool   `json:"isDone"`
	Type        string `json:"type,omitempty"`
}

// Task is the uniform projection of an unfinished stage or standalone task
// consumed by the assignment engine. Key is stable across reloads:
// "{unitID}_{productID}_{stageID}" for stages, the task id for standalone
// tasks.
type Task struct {
	Key               string   `json:"key"`
	UnitKind          UnitKind `json:"unitKind,omitempty"`
	UnitID            string   `json:"unitId,omitempty"`
	UnitCode          string   `json:"unitCode,omitempty"`
	ProductID         string   `json:"productId,omitempty"`
	ProductName       string   `json:"productName,omitempty"`
	StageID           string   `json:"stageId,omitempty"`
	StageName         string   `json:"stageName,omitempty"`
	CustomerName      string   `json:"customerName,omitempty"`
	CurrentAssigneeID string   `json:"currentAssignee,omitempty"`
	DepartmentCode    string   `json:"departmentCode,omitempty"`
	Deadline          int64    `json:"deadline,omitempty"`
	Standalone        bool     `json:"standalone,omitempty"`
}

// WorkloadEntry is the derived per-member count of unfinished assigned work.
// It is recomputed on every load and never persisted, so it always reflects
// the live state of all open units.
type WorkloadEntry struct {
	MemberID    string `json:"memberId"`
	MemberName  string `json:"memberName"`
	ActiveTasks int    `json:"activeTasks"`
}
