package character

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/sqlite"
)

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// SQLiteConfig contains configuration for the SQLite character repository.
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

// NewSQLite creates a character repository over an already migrated database
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
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM characters WHERE id = ?`, input.ID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character")
	}

	char, err := decodeCharacter(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character %s", input.ID)
	}
	return &GetOutput{Character: char}, nil
}

func (r *sqliteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}
	char := input.Character

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (id, name, ruleset_id, class_id, level, document, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   ruleset_id = excluded.ruleset_id,
		   class_id = excluded.class_id,
		   level = excluded.level,
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		char.ID, char.Name, char.RulesetID, char.ClassID, char.Level, string(data),
		sqlite.ToMillis(r.clock.Now()),
	)
	if err != nil {
		slog.ErrorContext(ctx, "failed to store character",
			"character_id", char.ID,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to store character")
	}

	return &PutOutput{Character: char}, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *sqliteRepository) ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error) {
	query := `SELECT document FROM characters`
	var args []any
	if input.RulesetID != "" {
		query += ` WHERE ruleset_id = ?`
		args = append(args, input.RulesetID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	chars := []*entities.Character{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrapf(err, "failed to scan character")
		}
		char, err := decodeCharacter(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal character")
		}
		chars = append(chars, char)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}

	sortCharacters(chars)

	return &ListAllOutput{Characters: chars}, nil
}

func decodeCharacter(doc string) (*entities.Character, error) {
	var char entities.Character
	if err := json.Unmarshal([]byte(doc), &char); err != nil {
		return nil, err
	}
	return &char, nil
}
