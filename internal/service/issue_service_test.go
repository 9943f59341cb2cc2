package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/issue-service/internal/domain"
	"github.com/campusops/issue-service/internal/events"
	"github.com/campusops/issue-service/internal/repository"
	apperrors "github.com/campusops/issue-service/pkg/util/errorutil"
)

// fakeIssueRepo mimics the Postgres repository semantics in memory,
// including the conditional resolution write.
type fakeIssueRepo struct {
	mu     sync.Mutex
	issues map[string]*domain.Issue
	seq    int
	base   time.Time
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{
		issues: make(map[string]*domain.Issue),
		base:   time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (r *fakeIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	issue.ID = fmt.Sprintf("issue-%d", r.seq)
	issue.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Minute)
	issue.UpdatedAt = issue.CreatedAt
	stored := *issue
	r.issues[issue.ID] = &stored
	return nil
}

func (r *fakeIssueRepo) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[issue.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = issue.Status
	stored.Priority = issue.Priority
	stored.AssignedDepartment = issue.AssignedDepartment
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeIssueRepo) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeIssueRepo) ListWithFilter(_ context.Context, filter repository.IssueFilter) ([]domain.Issue, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Issue
	for _, issue := range r.issues {
		if filter.ReportedBy != nil && issue.ReportedBy != *filter.ReportedBy {
			continue
		}
		if filter.Department != nil {
			if issue.AssignedDepartment == nil || *issue.AssignedDepartment != *filter.Department {
				continue
			}
		}
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && issue.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && issue.Category != *filter.Category {
			continue
		}
		if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			if !strings.Contains(strings.ToLower(issue.Title), needle) &&
				!strings.Contains(strings.ToLower(issue.Description), needle) &&
				!strings.Contains(strings.ToLower(issue.Location.Building), needle) {
				continue
			}
		}
		matched = append(matched, *issue)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Priority.Rank() > matched[j].Priority.Rank()
	})

	total := len(matched)
	offset := filter.Offset
	if offset > total {
		offset = total
	}
	end := offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeIssueRepo) SetResolution(_ context.Context, issueID, resolvedBy, notes string, resolvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[issueID]
	if !ok {
		return false, nil
	}
	if stored.Resolution.ResolvedAt != nil {
		return false, nil
	}
	stored.Resolution = domain.Resolution{
		ResolvedBy: &resolvedBy,
		ResolvedAt: &resolvedAt,
		Notes:      notes,
	}
	return true, nil
}

func (r *fakeIssueRepo) CountByStatus(_ context.Context, department *domain.Department) (repository.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts repository.StatusCounts
	for _, issue := range r.issues {
		if department != nil {
			if issue.AssignedDepartment == nil || *issue.AssignedDepartment != *department {
				continue
			}
		}
		counts.Total++
		switch issue.Status {
		case domain.IssueStatusPending:
			counts.Pending++
		case domain.IssueStatusInProgress:
			counts.InProgress++
		case domain.IssueStatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}

func (r *fakeIssueRepo) DepartmentBreakdown(_ context.Context) ([]repository.DepartmentCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grouped := make(map[domain.Department]*repository.DepartmentCounts)
	for _, issue := range r.issues {
		if issue.AssignedDepartment == nil {
			continue
		}
		dept := *issue.AssignedDepartment
		entry, ok := grouped[dept]
		if !ok {
			d := dept
			entry = &repository.DepartmentCounts{Department: &d}
			grouped[dept] = entry
		}
		entry.Total++
		switch issue.Status {
		case domain.IssueStatusPending:
			entry.Pending++
		case domain.IssueStatusInProgress:
			entry.InProgress++
		case domain.IssueStatusResolved:
			entry.Resolved++
		}
	}
	var result []repository.DepartmentCounts
	for _, entry := range grouped {
		result = append(result, *entry)
	}
	return result, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string][]domain.Comment
	seq      int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string][]domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments[comment.IssueID] = append(r.comments[comment.IssueID], *comment)
	return nil
}

func (r *fakeCommentRepo) ListByIssue(_ context.Context, issueID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Comment{}, r.comments[issueID]...), nil
}

func newTestService() (*IssueService, *fakeIssueRepo, *fakeCommentRepo) {
	issueRepo := newFakeIssueRepo()
	commentRepo := newFakeCommentRepo()
	svc := NewIssueService(IssueDependencies{
		IssueRepo:   issueRepo,
		CommentRepo: commentRepo,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return svc, issueRepo, commentRepo
}

func deptPtr(d domain.Department) *domain.Department { return &d }

var (
	student = domain.Principal{ID: "user-student", Role: domain.RoleStudent}
	itStaff = domain.Principal{ID: "user-staff", Role: domain.RoleStaff, Department: deptPtr(domain.DepartmentIT)}
	admin   = domain.Principal{ID: "user-admin", Role: domain.RoleAdmin}
)

func mustCreate(t *testing.T, svc *IssueService, principal domain.Principal, title, description string) *domain.Issue {
	t.Helper()
	issue, err := svc.Create(context.Background(), principal, IssueCreateInput{
		Title:       title,
		Description: description,
		Location:    domain.Location{Building: "Main Hall"},
	})
	require.NoError(t, err)
	return issue
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, status, de.HTTPStatus)
}

func TestCreateComputesTriageFields(t *testing.T) {
	svc, _, _ := newTestService()

	issue := mustCreate(t, svc, student, "Projector not working in 101", "the projector bulb is broken")

	assert.Equal(t, domain.CategoryTechnology, issue.Category)
	assert.Equal(t, domain.IssuePriorityHigh, issue.Priority)
	require.NotNil(t, issue.AssignedDepartment)
	assert.Equal(t, domain.DepartmentIT, *issue.AssignedDepartment)
	assert.Equal(t, domain.IssueStatusPending, issue.Status)
	assert.Equal(t, student.ID, issue.ReportedBy)
	assert.False(t, issue.Resolved())
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, student, IssueCreateInput{Description: "x", Location: domain.Location{Building: "A"}})
	assertStatus(t, err, 400)

	_, err = svc.Create(ctx, student, IssueCreateInput{Title: "x", Location: domain.Location{Building: "A"}})
	assertStatus(t, err, 400)

	_, err = svc.Create(ctx, student, IssueCreateInput{Title: "x", Description: "y"})
	assertStatus(t, err, 400)

	_, err = svc.Create(ctx, student, IssueCreateInput{
		Title:       strings.Repeat("t", 101),
		Description: "y",
		Location:    domain.Location{Building: "A"},
	})
	assertStatus(t, err, 400)
}

func TestLengthBoundsCountCharactersNotBytes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	// 100 two-byte runes stay within the 100 character bound.
	issue, err := svc.Create(ctx, student, IssueCreateInput{
		Title:       strings.Repeat("é", 100),
		Description: strings.Repeat("ü", 500),
		Location:    domain.Location{Building: "A"},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, student, IssueCreateInput{
		Title:       strings.Repeat("é", 101),
		Description: "y",
		Location:    domain.Location{Building: "A"},
	})
	assertStatus(t, err, 400)

	updated, err := svc.AddComment(ctx, student, issue.ID, strings.Repeat("ñ", 300))
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)

	_, err = svc.AddComment(ctx, student, issue.ID, strings.Repeat("ñ", 301))
	assertStatus(t, err, 400)

	resolved := domain.IssueStatusResolved
	final, err := svc.Update(ctx, admin, issue.ID, IssueUpdateInput{
		Status:          &resolved,
		ResolutionNotes: strings.Repeat("ö", 500),
	})
	require.NoError(t, err)
	require.True(t, final.Resolved())
}

func TestGetByIDAccessRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Chair broken", "the chair is broken") // maintenance

	_, err := svc.GetByID(ctx, domain.Principal{ID: "other-student", Role: domain.RoleStudent}, issue.ID)
	assertStatus(t, err, 403)

	// Staff outside the owning department.
	_, err = svc.GetByID(ctx, itStaff, issue.ID)
	assertStatus(t, err, 403)

	got, err := svc.GetByID(ctx, student, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)

	got, err = svc.GetByID(ctx, admin, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)

	_, err = svc.GetByID(ctx, admin, "missing")
	assertStatus(t, err, 404)
}

func TestUpdateStudentFieldsSilentlyIgnored(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Marker dried out", "need new whiteboard markers")
	require.Equal(t, domain.IssuePriorityLow, issue.Priority)

	newStatus := domain.IssueStatusInProgress
	newPriority := domain.IssuePriorityCritical
	newDept := domain.DepartmentIT
	updated, err := svc.Update(ctx, student, issue.ID, IssueUpdateInput{
		Status:             &newStatus,
		Priority:           &newPriority,
		AssignedDepartment: &newDept,
	})
	require.NoError(t, err)

	// Status applies, priority and department silently stay put.
	assert.Equal(t, domain.IssueStatusInProgress, updated.Status)
	assert.Equal(t, domain.IssuePriorityLow, updated.Priority)
	require.NotNil(t, updated.AssignedDepartment)
	assert.Equal(t, domain.DepartmentAcademic, *updated.AssignedDepartment)
}

func TestUpdateStaffDepartmentCheck(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Wobbly desk", "desk wobbles badly") // maintenance

	newStatus := domain.IssueStatusInProgress
	_, err := svc.Update(ctx, itStaff, issue.ID, IssueUpdateInput{Status: &newStatus})
	assertStatus(t, err, 403)

	maintStaff := domain.Principal{ID: "user-maint", Role: domain.RoleStaff, Department: deptPtr(domain.DepartmentMaintenance)}
	updated, err := svc.Update(ctx, maintStaff, issue.ID, IssueUpdateInput{Status: &newStatus})
	require.NoError(t, err)
	assert.Equal(t, domain.IssueStatusInProgress, updated.Status)

	_, err = svc.Update(ctx, admin, "missing", IssueUpdateInput{Status: &newStatus})
	assertStatus(t, err, 404)
}

func TestUpdateStatusTransitionsAreUnrestricted(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Trash pileup", "garbage bins overflowing")

	// No transition graph: closed straight back to pending is accepted.
	for _, status := range []domain.IssueStatus{
		domain.IssueStatusClosed,
		domain.IssueStatusPending,
		domain.IssueStatusAssigned,
	} {
		st := status
		updated, err := svc.Update(ctx, admin, issue.ID, IssueUpdateInput{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
	}
}

func TestResolutionFirstWins(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Leaking pipe", "water leaking in restroom")

	resolved := domain.IssueStatusResolved
	first, err := svc.Update(ctx, admin, issue.ID, IssueUpdateInput{Status: &resolved, ResolutionNotes: "fixed"})
	require.NoError(t, err)
	require.True(t, first.Resolved())
	firstAt := *first.Resolution.ResolvedAt
	assert.Equal(t, "fixed", first.Resolution.Notes)
	assert.Equal(t, admin.ID, *first.Resolution.ResolvedBy)

	second, err := svc.Update(ctx, itStaffAsAdmin(), issue.ID, IssueUpdateInput{Status: &resolved, ResolutionNotes: "fixed again"})
	require.NoError(t, err)
	require.True(t, second.Resolved())
	assert.True(t, firstAt.Equal(*second.Resolution.ResolvedAt))
	assert.Equal(t, "fixed", second.Resolution.Notes)
	assert.Equal(t, admin.ID, *second.Resolution.ResolvedBy)
}

// itStaffAsAdmin returns a second privileged principal for re-resolution.
func itStaffAsAdmin() domain.Principal {
	return domain.Principal{ID: "user-admin-2", Role: domain.RoleAdmin}
}

func TestResolutionDefaultNotes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "AC weak", "heating unit rattles")

	resolved := domain.IssueStatusResolved
	updated, err := svc.Update(ctx, admin, issue.ID, IssueUpdateInput{Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, "Issue resolved", updated.Resolution.Notes)
}

func TestResolutionOversizedNotesRejectsWholeUpdate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "AC weak", "heating unit rattles")

	resolved := domain.IssueStatusResolved
	critical := domain.IssuePriorityCritical
	_, err := svc.Update(ctx, admin, issue.ID, IssueUpdateInput{
		Status:          &resolved,
		Priority:        &critical,
		ResolutionNotes: strings.Repeat("n", 501),
	})
	assertStatus(t, err, 400)

	// Nothing may be committed when the notes fail validation.
	repo.mu.Lock()
	stored := *repo.issues[issue.ID]
	repo.mu.Unlock()
	assert.Equal(t, domain.IssueStatusPending, stored.Status)
	assert.Equal(t, issue.Priority, stored.Priority)
	assert.False(t, stored.Resolved())
}

func TestListStaffScopingOverridesFilters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mustCreate(t, svc, student, "Printer jammed", "printer eats paper")       // IT
	mustCreate(t, svc, student, "Wobbly chair", "chair leg loose")            // maintenance
	mustCreate(t, svc, student, "No internet", "wifi down in the whole wing") // IT

	// Staff asking for another department still only see their own.
	maintenance := domain.DepartmentMaintenance
	issues, _, err := svc.List(ctx, itStaff, IssueListFilter{Department: &maintenance})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	for _, issue := range issues {
		require.NotNil(t, issue.AssignedDepartment)
		assert.Equal(t, domain.DepartmentIT, *issue.AssignedDepartment)
	}

	// Admin filter by department works as requested.
	issues, _, err = svc.List(ctx, admin, IssueListFilter{Department: &maintenance})
	require.NoError(t, err)
	require.Len(t, issues, 1)
}

func TestListFiltersAndSearch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mustCreate(t, svc, student, "Printer jammed", "printer eats paper")
	mustCreate(t, svc, student, "Water cooler empty", "no water on floor 2")

	search := "cooler"
	issues, pagination, err := svc.List(ctx, admin, IssueListFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Water cooler empty", issues[0].Title)
	assert.Equal(t, 1, pagination.Total)

	category := domain.CategoryTechnology
	issues, _, err = svc.List(ctx, admin, IssueListFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Printer jammed", issues[0].Title)
}

func TestListPagination(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		mustCreate(t, svc, student, fmt.Sprintf("Broken chair %d", i), "chair leg broken")
	}

	issues, pagination, err := svc.List(ctx, admin, IssueListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, issues, 10)
	assert.Equal(t, Pagination{Current: 1, Pages: 3, Total: 25}, pagination)

	issues, pagination, err = svc.List(ctx, admin, IssueListFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, issues, 5)
	assert.Equal(t, 3, pagination.Current)
}

func TestListSortsNewestFirstThenPriority(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	low := mustCreate(t, svc, student, "Marker dried out", "whiteboard marker empty")
	high := mustCreate(t, svc, student, "Broken window", "window glass broken")

	// Force equal creation times so priority decides.
	repo.mu.Lock()
	repo.issues[low.ID].CreatedAt = repo.issues[high.ID].CreatedAt
	repo.mu.Unlock()

	issues, _, err := svc.List(ctx, admin, IssueListFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, high.ID, issues[0].ID)
	assert.Equal(t, low.ID, issues[1].ID)
}

func TestListMine(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mine := mustCreate(t, svc, student, "Printer jammed", "printer eats paper")
	other := domain.Principal{ID: "user-other", Role: domain.RoleStudent}
	mustCreate(t, svc, other, "Door lock stuck", "door will not lock")

	issues, err := svc.ListMine(ctx, student)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, mine.ID, issues[0].ID)
}

func TestListMineReturnsEverythingWithoutCap(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 501; i++ {
		mustCreate(t, svc, student, fmt.Sprintf("Broken chair %d", i), "chair leg broken")
	}

	issues, err := svc.ListMine(ctx, student)
	require.NoError(t, err)
	assert.Len(t, issues, 501)
}

func TestListAttachesCommentThreads(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	commented := mustCreate(t, svc, student, "Printer jammed", "printer eats paper")
	plain := mustCreate(t, svc, student, "Wobbly chair", "chair leg loose")

	_, err := svc.AddComment(ctx, student, commented.ID, "still broken")
	require.NoError(t, err)

	issues, _, err := svc.List(ctx, admin, IssueListFilter{})
	require.NoError(t, err)
	require.Len(t, issues, 2)

	byID := make(map[string]domain.Issue, len(issues))
	for _, issue := range issues {
		byID[issue.ID] = issue
	}
	require.Len(t, byID[commented.ID].Comments, 1)
	assert.Equal(t, "still broken", byID[commented.ID].Comments[0].Text)
	assert.Empty(t, byID[plain.ID].Comments)

	mine, err := svc.ListMine(ctx, student)
	require.NoError(t, err)
	for _, issue := range mine {
		if issue.ID == commented.ID {
			assert.Len(t, issue.Comments, 1)
		}
	}
}

func TestAddComment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	issue := mustCreate(t, svc, student, "Printer jammed", "printer eats paper") // IT

	_, err := svc.AddComment(ctx, student, issue.ID, "   ")
	assertStatus(t, err, 400)

	_, err = svc.AddComment(ctx, student, "missing", "hello")
	assertStatus(t, err, 404)

	otherStudent := domain.Principal{ID: "user-other", Role: domain.RoleStudent}
	_, err = svc.AddComment(ctx, otherStudent, issue.ID, "hello")
	assertStatus(t, err, 403)

	maintStaff := domain.Principal{ID: "user-maint", Role: domain.RoleStaff, Department: deptPtr(domain.DepartmentMaintenance)}
	_, err = svc.AddComment(ctx, maintStaff, issue.ID, "hello")
	assertStatus(t, err, 403)

	updated, err := svc.AddComment(ctx, student, issue.ID, "  still broken  ")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "still broken", updated.Comments[0].Text)
	assert.Equal(t, student.ID, updated.Comments[0].UserID)

	updated, err = svc.AddComment(ctx, itStaff, issue.ID, "on it")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 2)
}

func TestStatsScoping(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	itIssue := mustCreate(t, svc, student, "Printer jammed", "printer eats paper")    // IT
	mustCreate(t, svc, student, "Wobbly chair", "chair leg loose")                    // maintenance
	mustCreate(t, svc, student, "No internet", "wifi down in the entire north wing") // IT

	resolved := domain.IssueStatusResolved
	_, err := svc.Update(ctx, admin, itIssue.ID, IssueUpdateInput{Status: &resolved})
	require.NoError(t, err)

	// Staff stats restricted to their department.
	stats, err := svc.Stats(ctx, itStaff)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Resolved)
	assert.Empty(t, stats.DepartmentStats)

	// Students see global counts but no breakdown.
	stats, err = svc.Stats(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Empty(t, stats.DepartmentStats)

	// Admin gets the per-department breakdown.
	stats, err = svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	require.Len(t, stats.DepartmentStats, 2)
	byDept := map[domain.Department]DepartmentStats{}
	for _, entry := range stats.DepartmentStats {
		require.NotNil(t, entry.Department)
		byDept[*entry.Department] = entry
	}
	assert.Equal(t, 2, byDept[domain.DepartmentIT].Total)
	assert.Equal(t, 1, byDept[domain.DepartmentIT].Resolved)
	assert.Equal(t, 1, byDept[domain.DepartmentMaintenance].Total)
}
