package triage

import "github.com/campusops/issue-service/internal/domain"

var departmentTable = map[domain.IssueCategory]domain.Department{
	domain.CategoryTechnology: domain.DepartmentIT,
	domain.CategoryFurniture:  domain.DepartmentMaintenance,
	domain.CategoryUtilities:  domain.DepartmentFacilities,
	domain.CategoryFacilities: domain.DepartmentFacilities,
	domain.CategoryAcademic:   domain.DepartmentAcademic,
	domain.CategoryOther:      domain.DepartmentAdmin,
}

// AssignDepartment routes a category to its owning department. Unknown
// categories fall back to admin.
func AssignDepartment(category domain.IssueCategory) domain.Department {
	if dept, ok := departmentTable[category]; ok {
		return dept
	}
	return domain.DepartmentAdmin
}
