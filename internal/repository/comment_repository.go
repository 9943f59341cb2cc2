package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusops/issue-service/internal/domain"
)

// CommentRepository manages append-only issue comment threads.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO issue_comments (issue_id, user_id, text)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.IssueID,
		comment.UserID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.issue_id, c.user_id, u.name, c.text, c.created_at
        FROM issue_comments c JOIN users u ON u.id = c.user_id
        WHERE c.issue_id=$1
        ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.IssueID,
			&comment.UserID,
			&comment.UserName,
			&comment.Text,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
