package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

const profileColumns = `id, email, bio, photo_url, phone, user_name, first_name, last_name,
	category, followers, following, gender, created_at, updated_at, version`

// dbtx is satisfied by both the pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ProfileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	q := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (@id, @email, @bio, @photo_url, @phone, @user_name, @first_name, @last_name,
		        @category, @followers, @following, @gender, @created_at, @updated_at, @version)
	`
	_, err := r.db.Exec(ctx, q, profileArgs(p))
	return handleError(err, domain.EntityProfile, p.ID)
}

func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	return r.update(ctx, r.db, p)
}

// UpdateMany writes every profile in one transaction; a missing row rolls everything back.
func (r *ProfileRepo) UpdateMany(ctx context.Context, profiles ...*domain.Profile) error {
	// Versions are bumped only once the transaction commits.
	staged := make([]*domain.Profile, len(profiles))
	for i, p := range profiles {
		staged[i] = p.Clone()
	}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, p := range staged {
			if err := r.update(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, p := range profiles {
		p.Version = staged[i].Version
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, handleError(err, domain.EntityProfile, id)
	}
	return p, nil
}

func (r *ProfileRepo) GetAll(ctx context.Context) ([]*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("db: get all profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// --- HELPERS ---

func (r *ProfileRepo) update(ctx context.Context, db dbtx, p *domain.Profile) error {
	q := `
		UPDATE profiles
		SET email = @email, bio = @bio, photo_url = @photo_url, phone = @phone,
		    user_name = @user_name, first_name = @first_name, last_name = @last_name,
		    category = @category, followers = @followers, following = @following,
		    gender = @gender, updated_at = @updated_at, version = version + 1
		WHERE id = @id AND version = @version
	`
	tag, err := db.Exec(ctx, q, profileArgs(p))
	if err != nil {
		return handleError(err, domain.EntityProfile, p.ID)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or another writer bumped the version.
		var exists bool
		q := `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`
		if err := db.QueryRow(ctx, q, p.ID).Scan(&exists); err != nil {
			return handleError(err, domain.EntityProfile, p.ID)
		}
		if exists {
			return domain.NewStaleWriteError(domain.EntityProfile, p.ID)
		}
		return domain.NewNotFoundError(domain.EntityProfile, p.ID, "Profile not found")
	}
	p.Version++
	return nil
}

func profileArgs(p *domain.Profile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":         p.ID,
		"email":      p.Email,
		"bio":        p.Bio,
		"photo_url":  p.PhotoURL,
		"phone":      p.Phone,
		"user_name":  p.UserName,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"category":   nonNil(p.Category.Slice()),
		"followers":  p.Followers.Slice(),
		"following":  p.Following.Slice(),
		"gender":     p.Gender,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
		"version":    p.Version,
	}
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p                              domain.Profile
		category, followers, following []string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.Bio, &p.PhotoURL, &p.Phone, &p.UserName, &p.FirstName, &p.LastName,
		&category, &followers, &following, &p.Gender, &p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}
	p.Category = domain.NewIDSet(category...)
	p.Followers = domain.NewIDSet(followers...)
	p.Following = domain.NewIDSet(following...)
	return &p, nil
}
