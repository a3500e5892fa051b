package ruleset

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
	rulesetKeyPrefix = "ruleset:"
	allIndexKey      = "ruleset:all"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis ruleset repository.
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

// NewRedis creates a new Redis-backed ruleset repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRulesetIDEmpty)
	}

	result, err := r.client.Get(ctx, rulesetKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("ruleset with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get ruleset")
	}

	var rs entities.Ruleset
	if err := json.Unmarshal([]byte(result), &rs); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal ruleset %s", input.ID)
	}
	return &GetOutput{Ruleset: &rs}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validatePut(input); err != nil {
		return nil, err
	}
	id := input.Ruleset.Meta.ID

	data, err := json.Marshal(input.Ruleset)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal ruleset")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, rulesetKeyPrefix+id, data, 0)
	pipe.SAdd(ctx, allIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to store ruleset",
			"ruleset_id", id,
			"error", err.Error())
		return nil, errors.Wrapf(err, "failed to store ruleset")
	}

	return &PutOutput{Ruleset: input.Ruleset}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRulesetIDEmpty)
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, rulesetKeyPrefix+input.ID)
	pipe.SRem(ctx, allIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete ruleset")
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("ruleset with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListAll(ctx context.Context, _ ListAllInput) (*ListAllOutput, error) {
	ids, err := r.client.SMembers(ctx, allIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rulesets from index")
	}

	found := make([]*entities.Ruleset, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			out, err := r.Get(gctx, GetInput{ID: id})
			if err != nil {
				if errors.IsNotFound(err) {
					slog.WarnContext(gctx, "ruleset not found, cleaning up index",
						"ruleset_id", id)
					r.client.SRem(gctx, allIndexKey, id)
					return nil
				}
				return errors.Wrapf(err, "failed to get ruleset %s", id)
			}
			found[i] = out.Ruleset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rulesets := make([]*entities.Ruleset, 0, len(found))
	for _, rs := range found {
		if rs != nil {
			rulesets = append(rulesets, rs)
		}
	}
	sortRulesets(rulesets)

	return &ListAllOutput{Rulesets: rulesets}, nil
}
