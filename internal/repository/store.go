package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("record not found")

// maxTxRetries bounds optimistic WATCH retries when two writers race on a key.
const maxTxRetries = 10

func getJSON(ctx context.Context, rdb *redis.Client, key string, dst any) error {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func setJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

// updateJSON loads the value at key into dst, lets fn change it and writes it
// back with the remaining TTL intact. The read and write run under WATCH so
// a concurrent writer forces a retry instead of a lost update.
func updateJSON(ctx context.Context, rdb *redis.Client, key string, dst any, fn func() error) error {
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return err
		}
		if err := fn(); err != nil {
			return err
		}

		updated, err := json.Marshal(dst)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: too many concurrent writers", key)
}
