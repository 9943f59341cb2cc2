package events

import (
	"time"

	"github.com/campusops/issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueResolved      EventType = "issue_resolved"
	EventIssueCommentAdded  EventType = "issue_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title      string               `json:"title"`
	Category   domain.IssueCategory `json:"category"`
	Priority   domain.IssuePriority `json:"priority"`
	Department *domain.Department   `json:"department,omitempty"`
	Building   string               `json:"building"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}

// IssueResolvedPayload payload.
type IssueResolvedPayload struct {
	ResolvedBy string `json:"resolved_by"`
	Notes      string `json:"notes"`
}

// IssueCommentAddedPayload payload.
type IssueCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	TextPreview string `json:"text_preview"`
}
