package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tokenhome/internal/registry/models"
	id "tokenhome/pkg/domain"
	"tokenhome/pkg/platform/sentinel"
)

// Postgres implements Ledger on PostgreSQL. Each mutating call runs in one
// transaction with the state row locked FOR UPDATE, so the counter advance
// and the record insert/remove commit or roll back together.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a postgres-backed ledger. The caller owns the pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS registry_state (
	singleton      boolean PRIMARY KEY DEFAULT true CHECK (singleton),
	next_id        bigint  NOT NULL,
	live_count     bigint  NOT NULL,
	base_uri       text    NOT NULL,
	base_extension text    NOT NULL
);
CREATE TABLE IF NOT EXISTS tokens (
	id     bigint PRIMARY KEY,
	holder bytea  NOT NULL
);
INSERT INTO registry_state (next_id, live_count, base_uri, base_extension)
VALUES (1, 0, '', '.json')
ON CONFLICT (singleton) DO NOTHING;
`

// Migrate creates the schema and seeds the initial state row.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate registry schema: %w", err)
	}
	return nil
}

func (s *Postgres) MintNext(ctx context.Context, holder id.Address, accept func(id.TokenID) error) (id.TokenID, error) {
	var allocated id.TokenID
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var next uint64
		if err := tx.QueryRowContext(ctx,
			`SELECT next_id FROM registry_state FOR UPDATE`,
		).Scan(&next); err != nil {
			return fmt.Errorf("lock registry state: %w", err)
		}
		allocated = id.TokenID(next)

		if accept != nil {
			if err := accept(allocated); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (id, holder) VALUES ($1, $2)`,
			int64(allocated), holder[:],
		); err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE registry_state SET next_id = next_id + 1, live_count = live_count + 1`,
		); err != nil {
			return fmt.Errorf("advance counters: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return allocated, nil
}

func (s *Postgres) Burn(ctx context.Context, tokenID id.TokenID, allow func(holder id.Address) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var raw []byte
		err := tx.QueryRowContext(ctx,
			`SELECT holder FROM tokens WHERE id = $1 FOR UPDATE`,
			int64(tokenID),
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock token: %w", err)
		}

		holder, err := holderFromBytes(raw)
		if err != nil {
			return err
		}
		if allow != nil {
			if err := allow(holder); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tokens WHERE id = $1`, int64(tokenID),
		); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE registry_state SET live_count = live_count - 1`,
		); err != nil {
			return fmt.Errorf("decrement live count: %w", err)
		}
		return nil
	})
}

func (s *Postgres) Holder(ctx context.Context, tokenID id.TokenID) (id.Address, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT holder FROM tokens WHERE id = $1`, int64(tokenID),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return id.Address{}, sentinel.ErrNotFound
	}
	if err != nil {
		return id.Address{}, fmt.Errorf("find token holder: %w", err)
	}
	return holderFromBytes(raw)
}

func (s *Postgres) State(ctx context.Context) (models.State, error) {
	var st models.State
	var next int64
	err := s.db.QueryRowContext(ctx,
		`SELECT next_id, live_count, base_uri, base_extension FROM registry_state`,
	).Scan(&next, &st.LiveCount, &st.BaseURI, &st.BaseExtension)
	if err != nil {
		return models.State{}, fmt.Errorf("read registry state: %w", err)
	}
	st.NextID = id.TokenID(next)
	return st, nil
}

func (s *Postgres) SetBaseURI(ctx context.Context, uri string) (string, error) {
	var old string
	err := s.db.QueryRowContext(ctx,
		`UPDATE registry_state SET base_uri = $1
		 RETURNING (SELECT base_uri FROM registry_state)`,
		uri,
	).Scan(&old)
	if err != nil {
		return "", fmt.Errorf("set base uri: %w", err)
	}
	return old, nil
}

func (s *Postgres) SetBaseExtension(ctx context.Context, ext string) (string, error) {
	var old string
	err := s.db.QueryRowContext(ctx,
		`UPDATE registry_state SET base_extension = $1
		 RETURNING (SELECT base_extension FROM registry_state)`,
		ext,
	).Scan(&old)
	if err != nil {
		return "", fmt.Errorf("set base extension: %w", err)
	}
	return old, nil
}

func (s *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func holderFromBytes(raw []byte) (id.Address, error) {
	if len(raw) != id.AddressLen {
		return id.Address{}, fmt.Errorf("%w: holder column is %d bytes", sentinel.ErrInvalidState, len(raw))
	}
	var a id.Address
	copy(a[:], raw)
	return a, nil
}
