// Package postgres implements the repositories over PostgreSQL with pgx.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema through goose. goose speaks
// database/sql, so the pool is bridged with pgx's stdlib adapter.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	slog.Info("Migrations applied", "version", version)
	return nil
}

// --- HELPERS ---

// handleError translates PostgreSQL error codes into domain kinds.
func handleError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError(entity, id, notFoundMsg(entity))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.NewAlreadyExistsError(entity, id, alreadyExistsMsg(entity))
		case "23503": // foreign_key_violation
			return domain.NewNotFoundError(domain.EntityPost, "", "Post not found")
		}
	}
	return fmt.Errorf("db: %s %s: %w", entity, id, err)
}

func notFoundMsg(entity string) string {
	switch entity {
	case domain.EntityProfile:
		return "Profile not found"
	case domain.EntityComment:
		return "Comment not found"
	default:
		return "Post not found"
	}
}

func alreadyExistsMsg(entity string) string {
	switch entity {
	case domain.EntityProfile:
		return "Profile already exists"
	case domain.EntityComment:
		return "Comment Already Created"
	default:
		return "Post already exists"
	}
}

// nonNil keeps text[] columns NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
