package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minus-twelve/docsession/types"
)

// PostgresBackend maps a collection to a table; the database name is used as schema.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, cfg types.PostgresConfig) (*PostgresBackend, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgresBackendFromPool(pool), nil
}

// NewPostgresBackendFromPool wraps an existing pool; Close closes it.
func NewPostgresBackendFromPool(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

const sessionTableMigration = `
CREATE TABLE IF NOT EXISTS %[1]s (
    id text PRIMARY KEY,
    payload bytea NOT NULL,
    last_activity timestamptz NOT NULL,
    expire timestamptz NOT NULL,
    user_id text,
    ip_address text,
    user_agent text
);

CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (last_activity);

CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s (user_id);
`

// Migrate creates the schema and table behind a collection when they are missing.
func (b *PostgresBackend) Migrate(ctx context.Context, database, name string) error {
	if database != "" {
		if _, err := b.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{database}.Sanitize()); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", database, err)
		}
	}
	sql := fmt.Sprintf(sessionTableMigration,
		tableName(database, name),
		pgx.Identifier{name + "_last_activity_idx"}.Sanitize(),
		pgx.Identifier{name + "_user_id_idx"}.Sanitize(),
	)
	if _, err := b.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (b *PostgresBackend) Collection(database, name string) types.Collection {
	return &PostgresStore{pool: b.pool, table: tableName(database, name)}
}

func (b *PostgresBackend) Close(ctx context.Context) error {
	b.pool.Close()
	return nil
}

func tableName(database, name string) string {
	if database == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{database, name}.Sanitize()
}

type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func (s *PostgresStore) FindOne(ctx context.Context, id string) (*types.Record, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, payload, last_activity, expire, user_id, ip_address, user_agent
		FROM `+s.table+` WHERE id=$1
	`, id)

	var rec types.Record
	if err := row.Scan(&rec.ID, &rec.Payload, &rec.LastActivity, &rec.Expire, &rec.UserID, &rec.IPAddress, &rec.UserAgent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.LastActivity = rec.LastActivity.UTC()
	rec.Expire = rec.Expire.UTC()
	return &rec, nil
}

func (s *PostgresStore) UpsertOne(ctx context.Context, id string, rec types.Record) error {
	if rec.Payload == nil {
		rec.Payload = []byte{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.table+`
		(id, payload, last_activity, expire, user_id, ip_address, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			payload=EXCLUDED.payload,
			last_activity=EXCLUDED.last_activity,
			expire=EXCLUDED.expire,
			user_id=EXCLUDED.user_id,
			ip_address=EXCLUDED.ip_address,
			user_agent=EXCLUDED.user_agent
	`, id, rec.Payload, rec.LastActivity, rec.Expire, rec.UserID, rec.IPAddress, rec.UserAgent)
	return err
}

func (s *PostgresStore) DeleteOne(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE id=$1`, id)
	return err
}

func (s *PostgresStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE last_activity < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.pool.Exec(ctx, `DELETE FROM `+s.table+` WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

// CreateTTLIndex always fails: expired rows are removed by the sweeper instead.
func (s *PostgresStore) CreateTTLIndex(ctx context.Context, field string, afterSeconds int32) error {
	return ErrTTLUnsupported
}
