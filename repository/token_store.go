package repository

import (
	"context"
	"errors"
	"strings"
	"studygroup-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("token store: key not found")

const (
	refreshKeyPrefix   = "RT:"
	accessKeyPrefix    = "AT:"
	blacklistKeyPrefix = "BlackList_"
)

func RefreshKey(identity string) string { return refreshKeyPrefix + identity }

func AccessKey(identity string) string { return accessKeyPrefix + identity }

func BlacklistKey(token string) string { return blacklistKeyPrefix + token }

// ITokenStore is the TTL key-value contract used by the token service.
type ITokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	// ReplacePair drops the identity's previous access/refresh entries and
	// stores the new ones in a single MULTI/EXEC.
	ReplacePair(ctx context.Context, identity, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) error
}

// RedisTokenStore implements ITokenStore on a go-redis client. The client's
// connection pool makes it safe for concurrent use.
type RedisTokenStore struct {
	client redis.UniversalClient
}

func NewRedisTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key_prefix", keyPrefix(key)).Error("Failed to set token store key")
		return err
	}
	return nil
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("key_prefix", keyPrefix(key)).Error("Failed to get token store key")
		return "", err
	}
	return val, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to delete token store keys")
		return err
	}
	return nil
}

func (s *RedisTokenStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("key_prefix", keyPrefix(key)).Error("Failed to check token store key")
		return false, err
	}
	return n > 0, nil
}

func (s *RedisTokenStore) ReplacePair(ctx context.Context, identity, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, AccessKey(identity), RefreshKey(identity))
		pipe.Set(ctx, AccessKey(identity), accessToken, accessTTL)
		pipe.Set(ctx, RefreshKey(identity), refreshToken, refreshTTL)
		return nil
	})
	if err != nil {
		logger.Log.WithError(err).WithField("identity", identity).Error("Failed to replace token pair")
		return err
	}
	return nil
}

// keyPrefix keeps raw tokens out of the logs.
func keyPrefix(key string) string {
	for _, p := range []string{refreshKeyPrefix, accessKeyPrefix, blacklistKeyPrefix} {
		if strings.HasPrefix(key, p) {
			return p
		}
	}
	return ""
}
