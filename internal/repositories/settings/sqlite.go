package settings

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/sqlite"
)

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// SQLiteConfig contains configuration for the SQLite settings repository.
type SQLiteConfig struct {
	DB    *sql.DB
	Clock clock.Clock
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// NewSQLite creates settings storage over an already migrated database
func NewSQLite(cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &sqliteRepository{db: cfg.DB, clock: c}, nil
}

func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, input.Key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("setting %s is not set", input.Key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get setting %s", input.Key)
	}
	return &GetOutput{Value: value}, nil
}

func (r *sqliteRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}

	var err error
	if input.Value == "" {
		_, err = r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, input.Key)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			input.Key, input.Value, sqlite.ToMillis(r.clock.Now()),
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set setting %s", input.Key)
	}
	return &SetOutput{}, nil
}
