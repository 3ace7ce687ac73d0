package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

const commentColumns = `id, content, post_id, author_id, created_at, updated_at`

type CommentRepo struct {
	db *pgxpool.Pool
}

func NewCommentRepo(db *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) CreateComment(ctx context.Context, c *domain.Comment) error {
	q := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES (@id, @content, @post_id, @author_id, @created_at, @updated_at)
	`
	_, err := r.db.Exec(ctx, q, commentArgs(c))
	return handleError(err, domain.EntityComment, c.ID)
}

func (r *CommentRepo) UpdateComment(ctx context.Context, id string, c *domain.Comment) error {
	q := `UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, c.Content, c.UpdatedAt)
	if err != nil {
		return handleError(err, domain.EntityComment, id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found")
	}
	return nil
}

func (r *CommentRepo) DeleteComment(ctx context.Context, id string, _ *domain.Comment) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return handleError(err, domain.EntityComment, id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found to delete")
	}
	return nil
}

func (r *CommentRepo) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, handleError(err, domain.EntityComment, id)
	}
	return c, nil
}

func (r *CommentRepo) GetComments(ctx context.Context) ([]*domain.Comment, error) {
	return queryComments(ctx, r.db, ``)
}

func (r *CommentRepo) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return queryComments(ctx, r.db, `WHERE post_id = $1`, postID)
}

// --- HELPERS ---

func queryComments(ctx context.Context, db *pgxpool.Pool, where string, args ...any) ([]*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments ` + where + ` ORDER BY created_at ASC, id`
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db: list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func commentArgs(c *domain.Comment) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         c.ID,
		"content":    c.Content,
		"post_id":    c.PostID,
		"author_id":  c.AuthorID,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.PostID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
