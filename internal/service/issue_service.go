package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusops/issue-service/internal/domain"
	"github.com/campusops/issue-service/internal/events"
	"github.com/campusops/issue-service/internal/repository"
	"github.com/campusops/issue-service/internal/triage"
	apperrors "github.com/campusops/issue-service/pkg/util/errorutil"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxCommentLen     = 300
	maxNotesLen       = 500

	defaultPageSize = 10

	defaultResolutionNotes = "Issue resolved"
)

// IssueService coordinates the issue lifecycle: creation with automatic
// triage, scoped listing, per-field authorized updates, resolution
// bookkeeping and comment threads.
type IssueService struct {
	issues     repository.IssueRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
	statsCache *StatsCache
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo   repository.IssueRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
	StatsCache  *StatsCache
}

// IssueCreateInput describes report submission payload. Category, priority
// and department are derived, never accepted from the caller.
type IssueCreateInput struct {
	Title       string
	Description string
	Location    domain.Location
}

// IssueUpdateInput describes the mutable fields of an update request. Nil
// pointers mean the field was not supplied.
type IssueUpdateInput struct {
	Status             *domain.IssueStatus
	Priority           *domain.IssuePriority
	AssignedDepartment *domain.Department
	ResolutionNotes    string
}

// IssueListFilter captures user-supplied listing filters.
type IssueListFilter struct {
	Status     *domain.IssueStatus
	Priority   *domain.IssuePriority
	Category   *domain.IssueCategory
	Department *domain.Department
	Search     *string
	Page       int
	Limit      int
}

// Pagination reports list position: 1-based current page, computed page
// count and total matches.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

// DepartmentStats is the per-department dashboard slice, admin only.
type DepartmentStats struct {
	Department *domain.Department `json:"department"`
	Total      int                `json:"total"`
	Pending    int                `json:"pending"`
	InProgress int                `json:"inProgress"`
	Resolved   int                `json:"resolved"`
}

// DashboardStats aggregates counts for the dashboard.
type DashboardStats struct {
	Total           int               `json:"totalIssues"`
	Pending         int               `json:"pendingIssues"`
	InProgress      int               `json:"inProgressIssues"`
	Resolved        int               `json:"resolvedIssues"`
	DepartmentStats []DepartmentStats `json:"departmentStats"`
}

// Per-field write permissions by role. Students may move status but their
// priority and department changes are dropped without error.
var fieldPermissions = map[domain.Role]map[string]bool{
	domain.RoleStudent: {"status": true, "priority": false, "assignedDepartment": false},
	domain.RoleStaff:   {"status": true, "priority": true, "assignedDepartment": true},
	domain.RoleAdmin:   {"status": true, "priority": true, "assignedDepartment": true},
}

func fieldAllowed(role domain.Role, field string) bool {
	perms, ok := fieldPermissions[role]
	if !ok {
		return false
	}
	return perms[field]
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
		statsCache: deps.StatsCache,
	}
}

// Create validates and persists a new report. Category, priority and the
// owning department are computed from title and description.
func (s *IssueService) Create(ctx context.Context, principal domain.Principal, input IssueCreateInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	building := strings.TrimSpace(input.Location.Building)

	if title == "" || description == "" || building == "" {
		return nil, apperrors.NewValidationError("title, description, and building location are required", nil)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, apperrors.NewValidationError("title cannot exceed 100 characters", nil)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, apperrors.NewValidationError("description cannot exceed 500 characters", nil)
	}

	category := triage.Categorize(title, description)
	priority := triage.Prioritize(title, description, category)
	department := triage.AssignDepartment(category)

	issue := &domain.Issue{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.IssueStatusPending,
		Location: domain.Location{
			Building: building,
			Room:     strings.TrimSpace(input.Location.Room),
			Floor:    strings.TrimSpace(input.Location.Floor),
		},
		ReportedBy:         principal.ID,
		AssignedDepartment: &department,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			Title:      issue.Title,
			Category:   issue.Category,
			Priority:   issue.Priority,
			Department: issue.AssignedDepartment,
			Building:   issue.Location.Building,
		},
	})
	s.statsCache.Invalidate(ctx)

	return s.loadIssue(ctx, issue.ID)
}

// List returns issues visible to the principal, filtered, sorted newest
// first with priority as the tie-break, and paginated.
func (s *IssueService) List(ctx context.Context, principal domain.Principal, filter IssueListFilter) ([]domain.Issue, Pagination, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	repoFilter := repository.IssueFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		Category:   filter.Category,
		Department: filter.Department,
		Search:     filter.Search,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	// Department scoping for staff overrides any department filter supplied
	// in the request.
	if scoped := scopeDepartment(principal); scoped != nil {
		repoFilter.Department = scoped
	}

	issues, total, err := s.issues.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	if err := s.attachCommentThreads(ctx, issues); err != nil {
		return nil, Pagination{}, err
	}

	pagination := Pagination{
		Current: page,
		Pages:   (total + limit - 1) / limit,
		Total:   total,
	}
	return issues, pagination, nil
}

// ListMine returns every issue reported by the principal, newest first.
// No page cap applies here.
func (s *IssueService) ListMine(ctx context.Context, principal domain.Principal) ([]domain.Issue, error) {
	repoFilter := repository.IssueFilter{
		ReportedBy: &principal.ID,
	}
	issues, _, err := s.issues.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.attachCommentThreads(ctx, issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// GetByID fetches a single issue with its comment thread, enforcing
// per-issue access rules.
func (s *IssueService) GetByID(ctx context.Context, principal domain.Principal, id string) (*domain.Issue, error) {
	issue, err := s.fetchIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccessIssue(principal, issue); err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Update applies status, priority, department and resolution changes.
// Fields the role may not write are dropped silently. Resolution details
// are written once per issue; repeated resolved transitions leave the
// original record untouched.
func (s *IssueService) Update(ctx context.Context, principal domain.Principal, id string, input IssueUpdateInput) (*domain.Issue, error) {
	issue, err := s.fetchIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.Role == domain.RoleStaff && !departmentMatches(principal, issue) {
		return nil, apperrors.NewForbidden("access denied to update this issue")
	}

	// Validate resolution notes before any write so a rejected update leaves
	// the issue untouched.
	resolving := input.Status != nil && *input.Status == domain.IssueStatusResolved
	notes := strings.TrimSpace(input.ResolutionNotes)
	if resolving {
		if notes == "" {
			notes = defaultResolutionNotes
		}
		if utf8.RuneCountInString(notes) > maxNotesLen {
			return nil, apperrors.NewValidationError("resolution notes cannot exceed 500 characters", nil)
		}
	}

	oldStatus := issue.Status
	if input.Status != nil && fieldAllowed(principal.Role, "status") {
		issue.Status = *input.Status
	}
	if input.Priority != nil && fieldAllowed(principal.Role, "priority") {
		issue.Priority = *input.Priority
	}
	if input.AssignedDepartment != nil && fieldAllowed(principal.Role, "assignedDepartment") {
		issue.AssignedDepartment = input.AssignedDepartment
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	if issue.Status != oldStatus {
		s.publishEvent(ctx, principal, events.Event{
			Type:    events.EventIssueStatusChanged,
			IssueID: issue.ID,
			Payload: events.IssueStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: issue.Status,
			},
		})
	}

	if resolving {
		applied, err := s.issues.SetResolution(ctx, issue.ID, principal.ID, notes, time.Now())
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if applied {
			s.publishEvent(ctx, principal, events.Event{
				Type:    events.EventIssueResolved,
				IssueID: issue.ID,
				Payload: events.IssueResolvedPayload{
					ResolvedBy: principal.ID,
					Notes:      notes,
				},
			})
		}
	}

	s.statsCache.Invalidate(ctx)
	return s.loadIssue(ctx, issue.ID)
}

// AddComment appends a comment to the issue's thread and returns the
// updated issue.
func (s *IssueService) AddComment(ctx context.Context, principal domain.Principal, id, text string) (*domain.Issue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, apperrors.NewValidationError("comment cannot exceed 300 characters", nil)
	}

	issue, err := s.fetchIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccessIssue(principal, issue); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		IssueID: issue.ID,
		UserID:  principal.ID,
		Text:    text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, principal, events.Event{
		Type:    events.EventIssueCommentAdded,
		IssueID: issue.ID,
		Payload: events.IssueCommentAddedPayload{
			CommentID:   comment.ID,
			TextPreview: textPreview(text, 120),
		},
	})

	return s.loadIssue(ctx, issue.ID)
}

// Stats returns dashboard counts scoped to the principal. Admins also
// receive the per-department breakdown. Results are served from the redis
// cache when fresh.
func (s *IssueService) Stats(ctx context.Context, principal domain.Principal) (*DashboardStats, error) {
	scoped := scopeDepartment(principal)
	cacheKey := statsCacheKey(principal.Role, scoped)
	if cached, ok := s.statsCache.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	counts, err := s.issues.CountByStatus(ctx, scoped)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &DashboardStats{
		Total:           counts.Total,
		Pending:         counts.Pending,
		InProgress:      counts.InProgress,
		Resolved:        counts.Resolved,
		DepartmentStats: []DepartmentStats{},
	}

	if principal.Role == domain.RoleAdmin {
		breakdown, err := s.issues.DepartmentBreakdown(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, entry := range breakdown {
			stats.DepartmentStats = append(stats.DepartmentStats, DepartmentStats{
				Department: entry.Department,
				Total:      entry.Total,
				Pending:    entry.Pending,
				InProgress: entry.InProgress,
				Resolved:   entry.Resolved,
			})
		}
	}

	s.statsCache.Set(ctx, cacheKey, stats)
	return stats, nil
}

// scopeDepartment derives the visibility restriction for list and stats
// operations: staff with a department see only that department's issues,
// students and admins are unrestricted here.
func scopeDepartment(principal domain.Principal) *domain.Department {
	if principal.Role == domain.RoleStaff && principal.Department != nil {
		return principal.Department
	}
	return nil
}

// canAccessIssue enforces single-issue access: staff must own the
// department, students must have reported the issue.
func canAccessIssue(principal domain.Principal, issue *domain.Issue) error {
	switch principal.Role {
	case domain.RoleStaff:
		if !departmentMatches(principal, issue) {
			return apperrors.NewForbidden("access denied to this issue")
		}
	case domain.RoleStudent:
		if issue.ReportedBy != principal.ID {
			return apperrors.NewForbidden("access denied to this issue")
		}
	}
	return nil
}

func departmentMatches(principal domain.Principal, issue *domain.Issue) bool {
	if principal.Department == nil || issue.AssignedDepartment == nil {
		return false
	}
	return *principal.Department == *issue.AssignedDepartment
}

func (s *IssueService) fetchIssue(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// loadIssue re-reads the issue with reporter references and comments
// resolved for the response.
func (s *IssueService) loadIssue(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.fetchIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) attachCommentThreads(ctx context.Context, issues []domain.Issue) error {
	for i := range issues {
		if err := s.attachComments(ctx, &issues[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *IssueService) attachComments(ctx context.Context, issue *domain.Issue) error {
	comments, err := s.comments.ListByIssue(ctx, issue.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	issue.Comments = comments
	return nil
}

func (s *IssueService) publishEvent(ctx context.Context, principal domain.Principal, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ActorID = principal.ID
	event.ActorRole = principal.Role
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
