package settings

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
)

const settingsKey = "settings"

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis settings repository.
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

// NewRedis creates settings storage in a single Redis hash
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}

	value, err := r.client.HGet(ctx, settingsKey, input.Key).Result()
	if err == redisclient.Nil || (err == nil && value == "") {
		return nil, errors.NotFoundf("setting %s is not set", input.Key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get setting %s", input.Key)
	}
	return &GetOutput{Value: value}, nil
}

func (r *redisRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}

	var err error
	if input.Value == "" {
		err = r.client.HDel(ctx, settingsKey, input.Key).Err()
	} else {
		err = r.client.HSet(ctx, settingsKey, input.Key, input.Value).Err()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set setting %s", input.Key)
	}
	return &SetOutput{}, nil
}
