// Package services wires the workflow core and assignment engine to the
// document store and exposes them as the operations the UI calls.
package services

import (
	"context"
	"fmt"
	"sort"

	"workshop-console/backend/internal/store"
	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

// LoadCatalog reads the reference data subtrees and snapshots them into a
// workflow.Catalog. Callers take a fresh snapshot per operation so lookups
// reflect the live tree.
func LoadCatalog(ctx context.Context, st store.Store) (*workflow.Catalog, error) {
	departments, err := loadMap[models.Department](ctx, st, store.DepartmentsRoot)
	if err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	templates, err := loadMap[models.WorkflowTemplate](ctx, st, store.TemplatesRoot)
	if err != nil {
		return nil, fmt.Errorf("load workflow templates: %w", err)
	}
	members, err := loadMap[models.Member](ctx, st, store.MembersRoot)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	deptList := make([]models.Department, 0, len(departments))
	for code, d := range departments {
		d.Code = code
		deptList = append(deptList, d)
	}
	templateList := make([]models.WorkflowTemplate, 0, len(templates))
	for id, t := range templates {
		t.ID = id
		templateList = append(templateList, t)
	}
	memberList := make([]models.Member, 0, len(members))
	for id, m := range members {
		m.ID = id
		memberList = append(memberList, m)
	}
	return workflow.NewCatalog(deptList, templateList, memberList), nil
}

func loadMap[T any](ctx context.Context, st store.Store, path string) (map[string]T, error) {
	value, err := st.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T)
	if value == nil {
		return out, nil
	}
	if err := store.Decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
