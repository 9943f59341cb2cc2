package domain

import "time"

// IssueStatus enumerates lifecycle states for issues. The backend accepts
// any enum value from a sufficiently privileged principal; there is no
// enforced transition graph.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusAssigned   IssueStatus = "assigned"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Rank orders priorities for sorting, critical highest.
func (p IssuePriority) Rank() int {
	switch p {
	case IssuePriorityCritical:
		return 4
	case IssuePriorityHigh:
		return 3
	case IssuePriorityMedium:
		return 2
	case IssuePriorityLow:
		return 1
	}
	return 0
}

// IssueCategory is the auto-assigned topical classification.
type IssueCategory string

const (
	CategoryTechnology IssueCategory = "technology"
	CategoryFurniture  IssueCategory = "furniture"
	CategoryUtilities  IssueCategory = "utilities"
	CategoryFacilities IssueCategory = "facilities"
	CategoryAcademic   IssueCategory = "academic"
	CategoryOther      IssueCategory = "other"
)

// Department is the operational unit responsible for resolving an issue.
type Department string

const (
	DepartmentIT          Department = "IT"
	DepartmentMaintenance Department = "maintenance"
	DepartmentAdmin       Department = "admin"
	DepartmentFacilities  Department = "facilities"
	DepartmentAcademic    Department = "academic"
)

// Location pinpoints where the problem was observed. Building is required.
type Location struct {
	Building string
	Room     string
	Floor    string
}

// Comment is an append-only thread entry on an issue.
type Comment struct {
	ID        string
	IssueID   string
	UserID    string
	UserName  string
	Text      string
	CreatedAt time.Time
}

// Resolution records who resolved the issue, when and how. It is written at
// most once per issue; later resolved transitions never overwrite it.
type Resolution struct {
	ResolvedBy *string
	ResolvedAt *time.Time
	Notes      string
}

// Issue is the aggregate for disruption reports. Category, priority and
// assigned department are computed at creation from title and description;
// they are never user-supplied.
type Issue struct {
	ID                 string
	Title              string
	Description        string
	Category           IssueCategory
	Priority           IssuePriority
	Status             IssueStatus
	Location           Location
	ReportedBy         string
	ReporterName       string
	ReporterEmail      string
	AssignedDepartment *Department
	Comments           []Comment
	Resolution         Resolution
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Resolved reports whether the issue has been resolved at least once.
func (i *Issue) Resolved() bool {
	return i.Resolution.ResolvedAt != nil
}
