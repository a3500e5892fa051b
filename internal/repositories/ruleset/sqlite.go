package ruleset

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/sqlite"
)

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// SQLiteConfig contains configuration for the SQLite ruleset repository.
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

// NewSQLite creates a ruleset repository over an already migrated database
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
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRulesetIDEmpty)
	}

	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM rulesets WHERE id = ?`, input.ID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("ruleset with ID %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ruleset")
	}

	var rs entities.Ruleset
	if err := json.Unmarshal([]byte(doc), &rs); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal ruleset %s", input.ID)
	}
	return &GetOutput{Ruleset: &rs}, nil
}

func (r *sqliteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}
	rs := input.Ruleset

	data, err := json.Marshal(rs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal ruleset")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO rulesets (id, name, version, document, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   version = excluded.version,
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		rs.Meta.ID, rs.Meta.Name, rs.Meta.Version, string(data), sqlite.ToMillis(r.clock.Now()),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store ruleset")
	}

	return &PutOutput{Ruleset: rs}, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRulesetIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM rulesets WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete ruleset")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFoundf("ruleset with ID %s not found", input.ID)
	}
	return &DeleteOutput{}, nil
}

func (r *sqliteRepository) ListAll(ctx context.Context, _ ListAllInput) (*ListAllOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT document FROM rulesets`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rulesets")
	}
	defer func() { _ = rows.Close() }()

	rulesets := []*entities.Ruleset{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrapf(err, "failed to scan ruleset")
		}
		var rs entities.Ruleset
		if err := json.Unmarshal([]byte(doc), &rs); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal ruleset")
		}
		rulesets = append(rulesets, &rs)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to list rulesets")
	}

	sortRulesets(rulesets)
	return &ListAllOutput{Rulesets: rulesets}, nil
}
