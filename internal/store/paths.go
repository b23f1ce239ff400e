package store

import "workshop-console/backend/pkg/models"

// Document tree layout, stable across the application:
//
//	orders/{orderId}
//	warranty_claims/{claimCode}
//	  products/{productId}/workflows/{stageId}
//	standalone_tasks/{taskId}
//	members/{memberId}
//	workflows/{templateId}
//	departments/{deptCode}
const (
	OrdersRoot      = "orders"
	ClaimsRoot      = "warranty_claims"
	TasksRoot       = "standalone_tasks"
	MembersRoot     = "members"
	TemplatesRoot   = "workflows"
	DepartmentsRoot = "departments"
)

// UnitRoot returns the collection root for a unit kind.
func UnitRoot(kind models.UnitKind) string {
	if kind == models.UnitKindWarrantyClaim {
		return ClaimsRoot
	}
	return OrdersRoot
}

// UnitPath addresses a whole order or claim document.
func UnitPath(kind models.UnitKind, unitID string) string {
	return Join(UnitRoot(kind), unitID)
}

// UnitStatusPath addresses the status field of a unit.
func UnitStatusPath(kind models.UnitKind, unitID string) string {
	return Join(UnitRoot(kind), unitID, "status")
}

// UnitUpdatedAtPath addresses the updatedAt field of a unit.
func UnitUpdatedAtPath(kind models.UnitKind, unitID string) string {
	return Join(UnitRoot(kind), unitID, "updatedAt")
}

// StagePath addresses one workflow stage of one product.
func StagePath(kind models.UnitKind, unitID, productID, stageID string) string {
	return Join(UnitRoot(kind), unitID, "products", productID, "workflows", stageID)
}

// StageMembersPath addresses the assignee list of a stage.
func StageMembersPath(kind models.UnitKind, unitID, productID, stageID string) string {
	return Join(StagePath(kind, unitID, productID, stageID), "members")
}

// TaskPath addresses a standalone task document.
func TaskPath(taskID string) string {
	return Join(TasksRoot, taskID)
}

// TaskAssigneePath addresses the assignee field of a standalone task.
func TaskAssigneePath(taskID string) string {
	return Join(TasksRoot, taskID, "assignee")
}

// MemberPath addresses a member document.
func MemberPath(memberID string) string {
	return Join(MembersRoot, memberID)
}
