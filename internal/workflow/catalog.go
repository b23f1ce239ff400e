// Package workflow implements the production tracking core: the workflow
// catalog snapshot, stage validation, progress aggregation and the status
// gate for orders and warranty claims.
package workflow

import (
	"sort"

	"workshop-console/backend/pkg/models"
)

// Catalog is a read-only snapshot of the reference data (departments,
// workflow templates, members). It is loaded once per operation and passed
// in explicitly, so display names are always resolved from live reference
// data instead of trusted from denormalized copies.
type Catalog struct {
	Departments map[string]models.Department
	Templates   map[string]models.WorkflowTemplate
	Members     map[string]models.Member
}

// NewCatalog builds a Catalog snapshot from reference data slices.
func NewCatalog(departments []models.Department, templates []models.WorkflowTemplate, members []models.Member) *Catalog {
	c := &Catalog{
		Departments: make(map[string]models.Department, len(departments)),
		Templates:   make(map[string]models.WorkflowTemplate, len(templates)),
		Members:     make(map[string]models.Member, len(members)),
	}
	for _, d := range departments {
		c.Departments[d.Code] = d
	}
	for _, t := range templates {
		c.Templates[t.ID] = t
	}
	for _, m := range members {
		c.Members[m.ID] = m
	}
	return c
}

// TemplateNames resolves template ids to display names, skipping unknown ids.
func (c *Catalog) TemplateNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.Templates[id]; ok {
			names = append(names, t.Name)
		}
	}
	return names
}

// MemberName resolves a member id to a display name, falling back to the id
// for members no longer in the reference data.
func (c *Catalog) MemberName(id string) string {
	if m, ok := c.Members[id]; ok {
		return m.Name
	}
	return id
}

// ActiveMembers returns the active members sorted by id.
func (c *Catalog) ActiveMembers() []models.Member {
	members := make([]models.Member, 0, len(c.Members))
	for _, m := range c.Members {
		if m.IsActive {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}
