package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "resume-studio:session:"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps sessions in Redis as JSON values with an expiry.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore on an existing client. A non-positive ttl uses
// DefaultTTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) (store *RedisStore) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store = &RedisStore{client: client, ttl: ttl}
	return store
}

// DialRedis connects to addr and verifies the server answers.
func DialRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (store *RedisStore, err error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		err = errors.Wrapf(err, "failed to reach redis at %s", addr)
		return store, err
	}

	store = NewRedisStore(client, ttl)
	return store, err
}

func redisKey(id string) (key string) {
	key = redisKeyPrefix + id
	return key
}

// Get returns the session or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, id string) (s State, err error) {
	var data []byte
	data, err = r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		err = ErrNotFound
		return s, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to load session %s", id)
		return s, err
	}

	err = json.Unmarshal(data, &s)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode session %s", id)
		return s, err
	}

	return s, err
}

// Put stores the session and restarts its TTL.
func (r *RedisStore) Put(ctx context.Context, s State) (err error) {
	var data []byte
	data, err = json.Marshal(s)
	if err != nil {
		err = errors.Wrapf(err, "failed to encode session %s", s.ID)
		return err
	}

	err = r.client.Set(ctx, redisKey(s.ID), data, r.ttl).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to save session %s", s.ID)
		return err
	}

	return err
}

// Delete removes the session.
func (r *RedisStore) Delete(ctx context.Context, id string) (err error) {
	err = r.client.Del(ctx, redisKey(id)).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to delete session %s", id)
		return err
	}
	return err
}

// Close releases the underlying client.
func (r *RedisStore) Close() (err error) {
	err = r.client.Close()
	return err
}
