package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// PostgresSchema creates the api_gateway table read by Postgres.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS api_gateway (
	name         TEXT PRIMARY KEY,
	method       TEXT NOT NULL DEFAULT '',
	methods      TEXT[] NOT NULL DEFAULT '{}',
	handler      TEXT NOT NULL,
	allow_guest  BOOLEAN NOT NULL DEFAULT FALSE,
	model        TEXT,
	transformers TEXT[] NOT NULL DEFAULT '{}',
	timeout_ms   INTEGER NOT NULL DEFAULT 0,
	description  TEXT
)`

const selectEndpoint = `
SELECT name, method, methods, handler, allow_guest, COALESCE(model, ''),
       transformers, timeout_ms, COALESCE(description, '')
FROM api_gateway WHERE name = $1`

const upsertEndpoint = `
INSERT INTO api_gateway (name, method, methods, handler, allow_guest, model, transformers, timeout_ms, description)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''))
ON CONFLICT (name) DO UPDATE SET
	method = EXCLUDED.method, methods = EXCLUDED.methods, handler = EXCLUDED.handler,
	allow_guest = EXCLUDED.allow_guest, model = EXCLUDED.model, transformers = EXCLUDED.transformers,
	timeout_ms = EXCLUDED.timeout_ms, description = EXCLUDED.description`

type pgDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads endpoint records from the api_gateway table.
type Postgres struct {
	db    pgDB
	owned *pgxpool.Pool
}

// NewPostgres uses a pool owned by the caller.
func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{db: pool} }

// OpenPostgres connects its own pool, released by Close.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	return &Postgres{db: pool, owned: pool}, nil
}

func (s *Postgres) Get(ctx context.Context, name string) (manifest.Endpoint, error) {
	var ep manifest.Endpoint
	err := s.db.QueryRow(ctx, selectEndpoint, name).Scan(
		&ep.Name, &ep.Method, &ep.Methods, &ep.Handler, &ep.AllowGuest, &ep.Model,
		&ep.Transformers, &ep.TimeoutMS, &ep.Description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return manifest.Endpoint{}, ErrNotFound
	}
	if err != nil {
		return manifest.Endpoint{}, fmt.Errorf("postgres endpoint %q: %w", name, err)
	}
	return ep, nil
}

func (s *Postgres) Put(ctx context.Context, ep manifest.Endpoint) error {
	methods := ep.Methods
	if methods == nil {
		methods = []string{}
	}
	transformers := ep.Transformers
	if transformers == nil {
		transformers = []string{}
	}
	_, err := s.db.Exec(ctx, upsertEndpoint,
		ep.Name, ep.Method, methods, ep.Handler, ep.AllowGuest, ep.Model,
		transformers, ep.TimeoutMS, ep.Description,
	)
	return err
}

// Migrate creates the api_gateway table if it does not exist.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, PostgresSchema)
	return err
}

func (s *Postgres) Close() error {
	if s.owned != nil {
		s.owned.Close()
	}
	return nil
}
