package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

const postColumns = `id, creator_id, share, photo_url, content, hashtag, cate_id, reaction, mention,
	created_at, updated_at, deleted_at`

type PostRepo struct {
	db *pgxpool.Pool
}

func NewPostRepo(db *pgxpool.Pool) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	q := `
		INSERT INTO posts (` + postColumns + `)
		VALUES (@id, @creator_id, @share, @photo_url, @content, @hashtag, @cate_id, @reaction, @mention,
		        @created_at, @updated_at, NULL)
	`
	_, err := r.db.Exec(ctx, q, postArgs(p))
	return handleError(err, domain.EntityPost, p.ID)
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	q := `
		UPDATE posts
		SET share = @share, photo_url = @photo_url, content = @content, hashtag = @hashtag,
		    cate_id = @cate_id, reaction = @reaction, mention = @mention, updated_at = @updated_at
		WHERE id = @id AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, q, postArgs(p))
	if err != nil {
		return handleError(err, domain.EntityPost, p.ID)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(domain.EntityPost, p.ID, "Post not found")
	}
	return nil
}

// Delete is soft: the row stays, every read filters on deleted_at.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	q := `UPDATE posts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, q, id, time.Now().UTC())
	if err != nil {
		return handleError(err, domain.EntityPost, id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(domain.EntityPost, id, "Post not found to delete")
	}
	return nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPost(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, handleError(err, domain.EntityPost, id)
	}
	return p, nil
}

func (r *PostRepo) GetDetail(ctx context.Context, id string) (*domain.Post, error) {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := queryComments(ctx, r.db, `WHERE post_id = $1`, id)
	if err != nil {
		return nil, err
	}
	post.Comments = make([]domain.Comment, len(comments))
	for i, c := range comments {
		post.Comments[i] = *c
	}
	return post, nil
}

func (r *PostRepo) GetAllByUID(ctx context.Context, creatorID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, `creator_id = $1`, creatorID, page)
}

func (r *PostRepo) GetMine(ctx context.Context, id string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, `creator_id = $1`, id, page)
}

func (r *PostRepo) GetByCateID(ctx context.Context, cateID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, `$1 = ANY (cate_id)`, cateID, page)
}

func (r *PostRepo) GetShare(ctx context.Context, shareID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, `$1 = ANY (share)`, shareID, page)
}

func (r *PostRepo) GetByMentionID(ctx context.Context, mention string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, `$1 = ANY (mention)`, mention, page)
}

func (r *PostRepo) GetAllPost(ctx context.Context) ([]*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE deleted_at IS NULL ORDER BY created_at DESC, id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db: get all posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// --- HELPERS ---

// page runs one filtered listing, newest first. COUNT(*) OVER () carries
// the total of the filter on every returned row.
func (r *PostRepo) page(ctx context.Context, filter, key string, req domain.PageRequest) (*domain.PostPage, error) {
	q := `
		SELECT ` + postColumns + `, COUNT(*) OVER () AS total
		FROM posts
		WHERE deleted_at IS NULL AND ` + filter + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, q, key, req.Size, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}
	defer rows.Close()

	var total int64
	data := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows, &total)
		if err != nil {
			return nil, fmt.Errorf("db: scan post: %w", err)
		}
		data = append(data, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: list posts: %w", err)
	}

	// Past the last page the window yields no row; count separately then.
	if len(data) == 0 && req.Offset() > 0 {
		cq := `SELECT COUNT(*) FROM posts WHERE deleted_at IS NULL AND ` + filter
		if err := r.db.QueryRow(ctx, cq, key).Scan(&total); err != nil {
			return nil, fmt.Errorf("db: count posts: %w", err)
		}
	}

	return &domain.PostPage{Data: data, EndPage: domain.EndPage(total, req.Size)}, nil
}

func postArgs(p *domain.Post) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         p.ID,
		"creator_id": p.CreatorID,
		"share":      nonNil(p.Share.Slice()),
		"photo_url":  nonNil(p.PhotoURL),
		"content":    p.Content,
		"hashtag":    nonNil(p.Hashtag),
		"cate_id":    nonNil(p.CateID.Slice()),
		"reaction":   nonNil(p.Reaction),
		"mention":    nonNil(p.Mention.Slice()),
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

// scanPost reads postColumns, followed by any extra destinations.
func scanPost(row pgx.Row, extra ...any) (*domain.Post, error) {
	var p domain.Post
	var share, cateID, mention []string
	dest := []any{
		&p.ID, &p.CreatorID, &share, &p.PhotoURL, &p.Content, &p.Hashtag, &cateID, &p.Reaction, &mention,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Share = domain.NewIDSet(share...)
	p.CateID = domain.NewIDSet(cateID...)
	p.Mention = domain.NewIDSet(mention...)
	return &p, nil
}
