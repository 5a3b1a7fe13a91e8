package cursorstore

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

var (
	ErrDatabaseConnect = errors.New("failed to connect to database")
	ErrNamespaceEmpty  = errors.New("cursor namespace is empty")
)

const createCursorTable = `
	CREATE TABLE IF NOT EXISTS trigger_cursors (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (namespace, key)
	)`

// PostgresStore is a Store backed by the trigger_cursors table.
type PostgresStore struct {
	db        *sql.DB
	namespace string
}

// NewPostgresStore connects to Postgres and ensures the cursor table exists.
//
// Parameters:
// - ctx: the context for managing the request.
// - connStr: the database connection string.
// - namespace: the workflow node the cursors belong to.
//
// Returns:
// - *PostgresStore: the store instance.
// - error: an error if the connection or schema creation fails.
func NewPostgresStore(ctx context.Context, connStr string, namespace string) (*PostgresStore, error) {
	if namespace == "" {
		return nil, ErrNamespaceEmpty
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, ErrDatabaseConnect.Error())
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, ErrDatabaseConnect.Error())
	}

	if _, err := db.ExecContext(ctx, createCursorTable); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create trigger_cursors table")
	}

	return &PostgresStore{db: db, namespace: namespace}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string, value interface{}) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	var raw []byte
	err := p.db.QueryRowContext(ctx, `
       SELECT value
       FROM trigger_cursors
       WHERE namespace = $1 AND key = $2
    `, p.namespace, key).Scan(&raw)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read cursor %s", key)
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, errors.Wrapf(err, "failed to decode cursor %s", key)
	}
	return true, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value interface{}) error {
	if err := checkKey(key); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cursor %s", key)
	}

	_, err = p.db.ExecContext(ctx, `
       INSERT INTO trigger_cursors (namespace, key, value, updated_at)
       VALUES ($1, $2, $3, NOW())
       ON CONFLICT (namespace, key)
       DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.namespace,
		key,
		string(data),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to write cursor %s", key)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	_, err := p.db.ExecContext(ctx, `
       DELETE FROM trigger_cursors
       WHERE namespace = $1 AND key = $2
    `, p.namespace, key)
	if err != nil {
		return errors.Wrapf(err, "failed to delete cursor %s", key)
	}
	return nil
}

// Reset removes every cursor of the namespace, used when a workflow is re-activated from scratch.
func (p *PostgresStore) Reset(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM trigger_cursors WHERE namespace = $1`, p.namespace)
	if err != nil {
		return errors.Wrap(err, "failed to reset cursors")
	}
	return nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
