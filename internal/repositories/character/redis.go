package character

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const (
	characterKeyPrefix = "character:"
	allIndexKey        = "character:all"
	rulesetIndexPrefix = "character:ruleset:"

	// concurrent GETs while listing
	listConcurrency = 8
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var char entities.Character
	if err := json.Unmarshal([]byte(result), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character %s", input.ID)
	}

	return &GetOutput{Character: &char}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}
	char := input.Character
	key := characterKeyPrefix + char.ID

	// the previous ruleset decides which index entry to move
	var previousRuleset string
	existing, err := r.Get(ctx, GetInput{ID: char.ID})
	switch {
	case err == nil:
		previousRuleset = existing.Character.RulesetID
	case !errors.IsNotFound(err):
		return nil, err
	}

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, allIndexKey, char.ID)
	if previousRuleset != "" && previousRuleset != char.RulesetID {
		pipe.SRem(ctx, rulesetIndexPrefix+previousRuleset, char.ID)
	}
	if char.RulesetID != "" {
		pipe.SAdd(ctx, rulesetIndexPrefix+char.RulesetID, char.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to store character",
			"character_id", char.ID,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to store character")
	}

	slog.DebugContext(ctx, "stored character",
		"character_id", char.ID,
		"level", char.Level)

	return &PutOutput{Character: char}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+input.ID)
	pipe.SRem(ctx, allIndexKey, input.ID)
	if existing.Character.RulesetID != "" {
		pipe.SRem(ctx, rulesetIndexPrefix+existing.Character.RulesetID, input.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error) {
	indexKey := allIndexKey
	if input.RulesetID != "" {
		indexKey = rulesetIndexPrefix + input.RulesetID
	}

	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to read character index",
			"index_key", indexKey,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to get characters from index %s", indexKey)
	}

	found := make([]*entities.Character, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			out, err := r.Get(gctx, GetInput{ID: id})
			if err != nil {
				if errors.IsNotFound(err) {
					slog.WarnContext(gctx, "character not found, cleaning up index",
						"character_id", id,
						"index_key", indexKey)
					r.client.SRem(gctx, indexKey, id)
					return nil
				}
				return errors.Wrapf(err, "failed to get character %s", id)
			}
			found[i] = out.Character
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chars := make([]*entities.Character, 0, len(found))
	for _, c := range found {
		if c != nil {
			chars = append(chars, c)
		}
	}
	sortCharacters(chars)

	slog.DebugContext(ctx, "listed characters",
		"index_key", indexKey,
		"count", len(chars))

	return &ListAllOutput{Characters: chars}, nil
}
