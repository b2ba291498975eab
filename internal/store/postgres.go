package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink-client/internal/shortener"
)

const schema = `
	CREATE TABLE IF NOT EXISTS short_links (
		id           TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		custom       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMPTZ NOT NULL
	)
`

// PostgresStore is a PostgreSQL shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// EnsureSchema creates the links table when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) Create(ctx context.Context, link *shortener.Link) error {
	query, args, err := p.sb.
		Insert("short_links").
		Columns("id", "original_url", "custom", "created_at").
		Values(link.ID, link.OriginalURL, link.Custom, link.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return shortener.ErrIDTaken
		}

		return fmt.Errorf("insert link: %w", err)
	}

	return nil
}

func (p *PostgresStore) GetByID(ctx context.Context, id string) (*shortener.Link, error) {
	query, args, err := p.selectLinks().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var link shortener.Link

	err = p.pool.QueryRow(ctx, query, args...).Scan(&link.ID, &link.OriginalURL, &link.Custom, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("query link: %w", err)
	}

	return &link, nil
}

func (p *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := p.sb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("short_links").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}

	return exists, nil
}

// List returns links newest first.
func (p *PostgresStore) List(ctx context.Context) ([]*shortener.Link, error) {
	query, args, err := p.selectLinks().OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}

	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shortener.Link, error) {
		var link shortener.Link
		err := row.Scan(&link.ID, &link.OriginalURL, &link.Custom, &link.CreatedAt)

		return &link, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan links: %w", err)
	}

	return links, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) selectLinks() squirrel.SelectBuilder {
	return p.sb.Select("id", "original_url", "custom", "created_at").From("short_links")
}

var _ shortener.Repository = (*PostgresStore)(nil)
