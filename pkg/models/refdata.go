// Package models defines the domain models for the workshop console backend.
package models

// MemberRole represents the role of a staff member
type MemberRole string

const (
	MemberRoleWorker  MemberRole = "worker"
	MemberRoleSale    MemberRole = "sale"
	MemberRoleManager MemberRole = "manager"
	MemberRoleAdmin   MemberRole = "admin"
)

// Department is reference data identifying a production department.
// A stage's assignee pool is restricted to members of its department.
type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// WorkflowTemplate is a named workflow step template grouped under a
// department. Templates are immutable reference data and are never deleted
// while a stage references them.
type WorkflowTemplate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DepartmentCode string `json:"departmentCode"`
}

// Member represents a staff member. Stages and tasks store member ids only;
// names are resolved from reference data at read time.
type Member struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Role            MemberRole `json:"role"`
	DepartmentCodes []string   `json:"departments,omitempty"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       int64      `json:"createdAt,omitempty"`
	UpdatedAt       int64      `json:"updatedAt,omitempty"`
}

// BelongsTo reports whether the member belongs to the given department.
func (m Member) BelongsTo(departmentCode string) bool {
	for _, code := range m.DepartmentCodes {
		if code == departmentCode {
			return true
		}
	}
	return false
}
