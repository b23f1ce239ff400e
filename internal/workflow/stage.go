package workflow

import (
	"fmt"

	"workshop-console/backend/pkg/models"
)

// ValidationError reports malformed stage or product input. It is caught at
// the edit boundary; invalid stages never reach the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateStage checks the stage invariants against the reference data:
// the department must exist, every template must belong to the stage's
// department, and every assignee must be a member of that department.
func ValidateStage(stage models.Stage, cat *Catalog) error {
	if stage.DepartmentCode == "" {
		return &ValidationError{Field: "departmentCode", Reason: "required"}
	}
	if _, ok := cat.Departments[stage.DepartmentCode]; !ok {
		return &ValidationError{Field: "departmentCode", Reason: fmt.Sprintf("unknown department %q", stage.DepartmentCode)}
	}
	for _, id := range stage.TemplateIDs {
		t, ok := cat.Templates[id]
		if !ok {
			return &ValidationError{Field: "workflowCode", Reason: fmt.Sprintf("unknown template %q", id)}
		}
		if t.DepartmentCode != stage.DepartmentCode {
			return &ValidationError{
				Field:  "workflowCode",
				Reason: fmt.Sprintf("template %q belongs to department %q, not %q", id, t.DepartmentCode, stage.DepartmentCode),
			}
		}
	}
	for _, id := range stage.AssigneeIDs {
		m, ok := cat.Members[id]
		if !ok {
			return &ValidationError{Field: "members", Reason: fmt.Sprintf("unknown member %q", id)}
		}
		if !m.BelongsTo(stage.DepartmentCode) {
			return &ValidationError{
				Field:  "members",
				Reason: fmt.Sprintf("member %q is not in department %q", id, stage.DepartmentCode),
			}
		}
	}
	return nil
}

// ValidateProduct checks that a product is submittable: it must carry at
// least one stage and every stage must be valid.
func ValidateProduct(product models.Product, cat *Catalog) error {
	if len(product.Stages) == 0 {
		return &ValidationError{Field: "workflows", Reason: "a product needs at least one stage"}
	}
	for id, stage := range product.Stages {
		if err := ValidateStage(stage, cat); err != nil {
			return fmt.Errorf("stage %s: %w", id, err)
		}
	}
	return nil
}

// ChangeDepartment moves a stage to a new department and clears the fields
// that depended on the old one. Template and assignee selections made under
// the previous department are no longer valid, so the reset always cascades.
func ChangeDepartment(stage models.Stage, newDepartmentCode string) models.Stage {
	stage.DepartmentCode = newDepartmentCode
	stage.TemplateIDs = []string{}
	stage.TemplateNames = []string{}
	stage.AssigneeIDs = []string{}
	return stage
}

// ResolveTemplateNames refreshes the denormalized display names from the
// catalog. Called before every write so persisted names never go stale.
func ResolveTemplateNames(stage models.Stage, cat *Catalog) models.Stage {
	stage.TemplateNames = cat.TemplateNames(stage.TemplateIDs)
	return stage
}
