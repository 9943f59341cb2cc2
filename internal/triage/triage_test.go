package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/issue-service/internal/domain"
)

func TestCategorizeKeywordMatch(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        domain.IssueCategory
	}{
		{"technology", "Projector issue", "the projector bulb flickers", domain.CategoryTechnology},
		{"furniture", "Wobbly desk", "the desk in room 2 is wobbly", domain.CategoryFurniture},
		{"utilities", "No power", "electricity is out on floor 3", domain.CategoryUtilities},
		{"facilities", "Plumbing", "restroom sink keeps dripping", domain.CategoryFacilities},
		{"academic", "Supplies", "whiteboard markers ran out", domain.CategoryAcademic},
		{"no match", "Strange smell", "odd odor in the hallway", domain.CategoryOther},
		{"keyword in title only", "wifi", "", domain.CategoryTechnology},
		{"case insensitive", "PRINTER Jammed", "", domain.CategoryTechnology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.description))
		})
	}
}

func TestCategorizeDeclarationOrderWinsTies(t *testing.T) {
	// Both "printer" (technology) and "chair" (furniture) appear; technology
	// is declared first so it wins.
	got := Categorize("printer on the chair", "")
	assert.Equal(t, domain.CategoryTechnology, got)

	// "water" (utilities) before "toilet" (facilities).
	got = Categorize("water in the toilet area", "")
	assert.Equal(t, domain.CategoryUtilities, got)
}

func TestCategorizeDeterministic(t *testing.T) {
	first := Categorize("broken window near the printer", "desk damaged")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Categorize("broken window near the printer", "desk damaged"))
	}
}

func TestPrioritizeUrgentKeywordsDominate(t *testing.T) {
	// Furniture category would imply low, but "fire" forces critical.
	got := Prioritize("minor fire near the chair", "", domain.CategoryFurniture)
	assert.Equal(t, domain.IssuePriorityCritical, got)

	got = Prioritize("security concern", "door lock broken", domain.CategoryFacilities)
	assert.Equal(t, domain.IssuePriorityCritical, got)
}

func TestPrioritizeHighKeywords(t *testing.T) {
	got := Prioritize("Chair broken", "", domain.CategoryFurniture)
	assert.Equal(t, domain.IssuePriorityHigh, got)

	got = Prioritize("wifi down in library", "", domain.CategoryTechnology)
	assert.Equal(t, domain.IssuePriorityHigh, got)
}

func TestPrioritizeNotWorkingOnlyBoostsTechnology(t *testing.T) {
	got := Prioritize("monitor not working", "", domain.CategoryTechnology)
	assert.Equal(t, domain.IssuePriorityHigh, got)

	// "not working" on its own does not boost non-technology categories.
	got = Prioritize("pencil sharpener not working", "", domain.CategoryAcademic)
	assert.Equal(t, domain.IssuePriorityLow, got)

	// The keyword disjunct is not gated by the category check.
	got = Prioritize("leaking pipe", "", domain.CategoryAcademic)
	assert.Equal(t, domain.IssuePriorityHigh, got)
}

func TestPrioritizeCategoryDefaults(t *testing.T) {
	assert.Equal(t, domain.IssuePriorityMedium, Prioritize("ac weak", "", domain.CategoryUtilities))
	assert.Equal(t, domain.IssuePriorityMedium, Prioritize("trash pileup", "", domain.CategoryFacilities))
	assert.Equal(t, domain.IssuePriorityLow, Prioritize("marker dried out", "", domain.CategoryAcademic))
	assert.Equal(t, domain.IssuePriorityLow, Prioritize("misc request", "", domain.CategoryOther))
}

func TestAssignDepartment(t *testing.T) {
	assert.Equal(t, domain.DepartmentIT, AssignDepartment(domain.CategoryTechnology))
	assert.Equal(t, domain.DepartmentMaintenance, AssignDepartment(domain.CategoryFurniture))
	assert.Equal(t, domain.DepartmentFacilities, AssignDepartment(domain.CategoryUtilities))
	assert.Equal(t, domain.DepartmentFacilities, AssignDepartment(domain.CategoryFacilities))
	assert.Equal(t, domain.DepartmentAcademic, AssignDepartment(domain.CategoryAcademic))
	assert.Equal(t, domain.DepartmentAdmin, AssignDepartment(domain.CategoryOther))
	assert.Equal(t, domain.DepartmentAdmin, AssignDepartment(domain.IssueCategory("bogus")))
}

func TestTriageRoundTrip(t *testing.T) {
	title := "Projector not working in 101"
	description := "the projector bulb is broken"

	category := Categorize(title, description)
	assert.Equal(t, domain.CategoryTechnology, category)

	priority := Prioritize(title, description, category)
	assert.Equal(t, domain.IssuePriorityHigh, priority)

	assert.Equal(t, domain.DepartmentIT, AssignDepartment(category))
}
