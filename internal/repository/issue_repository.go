package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusops/issue-service/internal/domain"
)

// IssueFilter captures listing parameters. Nil fields are unset; a Limit
// of zero or less disables the page cap.
type IssueFilter struct {
	ReportedBy *string
	Department *domain.Department
	Status     *domain.IssueStatus
	Priority   *domain.IssuePriority
	Category   *domain.IssueCategory
	Search     *string
	Limit      int
	Offset     int
}

// StatusCounts aggregates issue counts for the dashboard.
type StatusCounts struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

// DepartmentCounts is the per-department dashboard breakdown.
type DepartmentCounts struct {
	Department *domain.Department
	StatusCounts
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, int, error)
	// SetResolution writes resolution details only when none exist yet and
	// reports whether the write was applied. The condition is evaluated in a
	// single statement so concurrent resolvers cannot both win.
	SetResolution(ctx context.Context, issueID, resolvedBy, notes string, resolvedAt time.Time) (bool, error)
	CountByStatus(ctx context.Context, department *domain.Department) (StatusCounts, error)
	DepartmentBreakdown(ctx context.Context) ([]DepartmentCounts, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

// priorityRank orders priorities in SQL, critical highest.
const priorityRank = `CASE i.priority
        WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

const issueColumns = `i.id, i.title, i.description, i.category, i.priority, i.status,
               i.location_building, i.location_room, i.location_floor,
               i.reported_by, u.name, u.email, i.assigned_department,
               i.resolution_resolved_by, i.resolution_resolved_at, i.resolution_notes,
               i.created_at, i.updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (title, description, category, priority, status,
            location_building, location_room, location_floor, reported_by, assigned_department)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Priority,
		issue.Status,
		issue.Location.Building,
		nullIfEmpty(issue.Location.Room),
		nullIfEmpty(issue.Location.Floor),
		issue.ReportedBy,
		issue.AssignedDepartment,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET status=$1, priority=$2, assigned_department=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Status,
		issue.Priority,
		issue.AssignedDepartment,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM issues i JOIN users u ON u.id = i.reported_by
        WHERE i.id=$1`, issueColumns)
	var issue domain.Issue
	if err := scanIssue(r.pool.QueryRow(ctx, query, id), &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReportedBy != nil {
		args = append(args, *filter.ReportedBy)
		clauses = append(clauses, fmt.Sprintf("i.reported_by=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("i.assigned_department=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("i.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("i.priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("i.category=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(i.title) LIKE %s OR LOWER(i.description) LIKE %s OR LOWER(i.location_building) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM issues i WHERE %s`, where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT %s FROM issues i JOIN users u ON u.id = i.reported_by
        WHERE %s
        ORDER BY i.created_at DESC, %s DESC`, issueColumns, where, priorityRank)
	// Limit <= 0 means no page cap.
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	issues, err := scanIssues(rows)
	if err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

func (r *issueRepository) SetResolution(ctx context.Context, issueID, resolvedBy, notes string, resolvedAt time.Time) (bool, error) {
	const query = `
        UPDATE issues SET resolution_resolved_by=$1, resolution_resolved_at=$2,
            resolution_notes=$3, updated_at=NOW()
        WHERE id=$4 AND resolution_resolved_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, resolvedBy, resolvedAt, notes, issueID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *issueRepository) CountByStatus(ctx context.Context, department *domain.Department) (StatusCounts, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='in-progress'),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM issues`
	args := []any{}
	if department != nil {
		query += ` WHERE assigned_department=$1`
		args = append(args, *department)
	}

	var counts StatusCounts
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.InProgress,
		&counts.Resolved,
	); err != nil {
		return StatusCounts{}, err
	}
	return counts, nil
}

func (r *issueRepository) DepartmentBreakdown(ctx context.Context) ([]DepartmentCounts, error) {
	const query = `
        SELECT assigned_department, COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='in-progress'),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM issues GROUP BY assigned_department`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DepartmentCounts
	for rows.Next() {
		var entry DepartmentCounts
		if err := rows.Scan(
			&entry.Department,
			&entry.Total,
			&entry.Pending,
			&entry.InProgress,
			&entry.Resolved,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanIssue(row pgx.Row, issue *domain.Issue) error {
	var room, floor, notes *string
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Priority,
		&issue.Status,
		&issue.Location.Building,
		&room,
		&floor,
		&issue.ReportedBy,
		&issue.ReporterName,
		&issue.ReporterEmail,
		&issue.AssignedDepartment,
		&issue.Resolution.ResolvedBy,
		&issue.Resolution.ResolvedAt,
		&notes,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return err
	}
	if room != nil {
		issue.Location.Room = *room
	}
	if floor != nil {
		issue.Location.Floor = *floor
	}
	if notes != nil {
		issue.Resolution.Notes = *notes
	}
	return nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := scanIssue(rows, &issue); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
