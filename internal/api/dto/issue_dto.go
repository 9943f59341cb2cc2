package dto

import (
	"time"

	"github.com/campusops/issue-service/internal/domain"
)

// CreateIssueRequest payload. Category, priority and department are never
// accepted from the client.
type CreateIssueRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    LocationRequest `json:"location"`
}

// LocationRequest describes where the problem was observed.
type LocationRequest struct {
	Building string `json:"building"`
	Room     string `json:"room"`
	Floor    string `json:"floor"`
}

// UpdateIssueRequest payload; omitted fields are left unchanged.
type UpdateIssueRequest struct {
	Status             *domain.IssueStatus   `json:"status"`
	Priority           *domain.IssuePriority `json:"priority"`
	AssignedDepartment *domain.Department    `json:"assignedDepartment"`
	ResolutionNotes    string                `json:"resolutionNotes"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// LocationResponse mirrors the stored location.
type LocationResponse struct {
	Building string `json:"building"`
	Room     string `json:"room,omitempty"`
	Floor    string `json:"floor,omitempty"`
}

// ReporterResponse is the resolved display form of the reporting user.
type ReporterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommentResponse is one thread entry with its author resolved.
type CommentResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResolutionResponse reports terminal bookkeeping, present once resolved.
type ResolutionResponse struct {
	ResolvedBy      string    `json:"resolvedBy"`
	ResolvedAt      time.Time `json:"resolvedAt"`
	ResolutionNotes string    `json:"resolutionNotes"`
}

// IssueResponse is the full issue representation.
type IssueResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Category           domain.IssueCategory `json:"category"`
	Priority           domain.IssuePriority `json:"priority"`
	Status             domain.IssueStatus   `json:"status"`
	Location           LocationResponse     `json:"location"`
	ReportedBy         ReporterResponse     `json:"reportedBy"`
	AssignedDepartment *domain.Department   `json:"assignedDepartment"`
	Comments           []CommentResponse    `json:"comments"`
	ResolutionDetails  *ResolutionResponse  `json:"resolutionDetails,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// PaginationResponse reports list position.
type PaginationResponse struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// FromIssue maps a domain issue into its response form.
func FromIssue(issue *domain.Issue) IssueResponse {
	comments := make([]CommentResponse, 0, len(issue.Comments))
	for _, comment := range issue.Comments {
		comments = append(comments, CommentResponse{
			ID:        comment.ID,
			User:      comment.UserID,
			UserName:  comment.UserName,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}

	resp := IssueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Priority:    issue.Priority,
		Status:      issue.Status,
		Location: LocationResponse{
			Building: issue.Location.Building,
			Room:     issue.Location.Room,
			Floor:    issue.Location.Floor,
		},
		ReportedBy: ReporterResponse{
			ID:    issue.ReportedBy,
			Name:  issue.ReporterName,
			Email: issue.ReporterEmail,
		},
		AssignedDepartment: issue.AssignedDepartment,
		Comments:           comments,
		CreatedAt:          issue.CreatedAt,
		UpdatedAt:          issue.UpdatedAt,
	}

	if issue.Resolved() {
		resolvedBy := ""
		if issue.Resolution.ResolvedBy != nil {
			resolvedBy = *issue.Resolution.ResolvedBy
		}
		resp.ResolutionDetails = &ResolutionResponse{
			ResolvedBy:      resolvedBy,
			ResolvedAt:      *issue.Resolution.ResolvedAt,
			ResolutionNotes: issue.Resolution.Notes,
		}
	}
	return resp
}

// FromIssues maps a slice of issues.
func FromIssues(issues []domain.Issue) []IssueResponse {
	result := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		result = append(result, FromIssue(&issues[i]))
	}
	return result
}
