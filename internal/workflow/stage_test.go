package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop-console/backend/pkg/models"
)

func testCatalog() *Catalog {
	return NewCatalog(
		[]models.Department{
			{Code: "carpentry", Name: "Carpentry"},
			{Code: "finishing", Name: "Finishing"},
		},
		[]models.WorkflowTemplate{
			{ID: "wf_cut", Name: "Cutting", DepartmentCode: "carpentry"},
			{ID: "wf_sand", Name: "Sanding", DepartmentCode: "finishing"},
		},
		[]models.Member{
			{ID: "m1", Name: "Binh", Role: models.MemberRoleWorker, DepartmentCodes: []string{"carpentry"}, IsActive: true},
			{ID: "m2", Name: "Chi", Role: models.MemberRoleWorker, DepartmentCodes: []string{"finishing"}, IsActive: true},
			{ID: "m3", Name: "Former", Role: models.MemberRoleWorker, DepartmentCodes: []string{"carpentry"}, IsActive: false},
		},
	)
}

func TestValidateStage(t *testing.T) {
	cat := testCatalog()

	t.Run("valid stage", func(t *testing.T) {
		stage := models.Stage{
			DepartmentCode: "carpentry",
			TemplateIDs:    []string{"wf_cut"},
			AssigneeIDs:    []string{"m1"},
		}
		assert.NoError(t, ValidateStage(stage, cat))
	})

	t.Run("template from another department", func(t *testing.T) {
		stage := models.Stage{
			DepartmentCode: "carpentry",
			TemplateIDs:    []string{"wf_sand"},
		}
		var invalid *ValidationError
		require.ErrorAs(t, ValidateStage(stage, cat), &invalid)
		assert.Equal(t, "workflowCode", invalid.Field)
	})

	t.Run("assignee outside department", func(t *testing.T) {
		stage := models.Stage{
			DepartmentCode: "carpentry",
			AssigneeIDs:    []string{"m2"},
		}
		var invalid *ValidationError
		require.ErrorAs(t, ValidateStage(stage, cat), &invalid)
		assert.Equal(t, "members", invalid.Field)
	})

	t.Run("unknown department", func(t *testing.T) {
		stage := models.Stage{DepartmentCode: "metal"}
		var invalid *ValidationError
		require.ErrorAs(t, ValidateStage(stage, cat), &invalid)
		assert.Equal(t, "departmentCode", invalid.Field)
	})
}

func TestValidateProduct(t *testing.T) {
	cat := testCatalog()

	t.Run("zero stages invalid for submission", func(t *testing.T) {
		var invalid *ValidationError
		require.ErrorAs(t, ValidateProduct(models.Product{Name: "table"}, cat), &invalid)
	})

	t.Run("valid product", func(t *testing.T) {
		product := models.Product{
			Name: "table",
			Stages: map[string]models.Stage{
				"s1": {DepartmentCode: "carpentry", TemplateIDs: []string{"wf_cut"}, AssigneeIDs: []string{"m1"}},
			},
		}
		assert.NoError(t, ValidateProduct(product, cat))
	})
}

func TestChangeDepartmentCascadingReset(t *testing.T) {
	stage := models.Stage{
		DepartmentCode: "carpentry",
		TemplateIDs:    []string{"wf_cut"},
		TemplateNames:  []string{"Cutting"},
		AssigneeIDs:    []string{"m1"},
		IsDone:         true,
	}
	changed := ChangeDepartment(stage, "finishing")
	assert.Equal(t, "finishing", changed.DepartmentCode)
	assert.Empty(t, changed.TemplateIDs)
	assert.Empty(t, changed.TemplateNames)
	assert.Empty(t, changed.AssigneeIDs)
	assert.True(t, changed.IsDone, "done flag is independent of the department")
}

func TestResolveTemplateNames(t *testing.T) {
	cat := testCatalog()
	stage := models.Stage{
		DepartmentCode: "carpentry",
		TemplateIDs:    []string{"wf_cut", "wf_gone"},
		TemplateNames:  []string{"Stale name"},
	}
	resolved := ResolveTemplateNames(stage, cat)
	assert.Equal(t, []string{"Cutting"}, resolved.TemplateNames)
}

func TestCatalogActiveMembers(t *testing.T) {
	cat := testCatalog()
	members := cat.ActiveMembers()
	require.Len(t, members, 2)
	assert.Equal(t, "m1", members[0].ID)
	assert.Equal(t, "m2", members[1].ID)
}
