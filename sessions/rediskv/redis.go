// Package rediskv is a sessions.Backend on Redis, for processes that share one
// session (several workers acting for the same user).
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenpulse/pulse-client/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Backend = (*Backend)(nil)

type Backend struct {
	client redis.UniversalClient
	prefix string
}

// New wraps an existing client. Keys are stored as prefix+key.
func New(client redis.UniversalClient, prefix string) (*Backend, error) {
	if client == nil {
		return nil, errors.New("[rediskv.New] client is required")
	}
	return &Backend{
		client: client,
		prefix: prefix,
	}, nil
}

// Dial connects to addr and checks the connection with a PING.
func Dial(ctx context.Context, addr, password, prefix string) (*Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[rediskv.Dial] ping %s: %w", addr, err)
	}
	return New(client, prefix)
}

func (b *Backend) key(k string) string {
	return b.prefix + k
}

func (b *Backend) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	found := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = b.key(k)
	}

	values, err := b.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("[rediskv.Get] mget: %w", err)
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			found[keys[i]] = s
		}
	}
	return found, nil
}

func (b *Backend) Apply(ctx context.Context, set map[string]string, del []string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(del) > 0 {
			prefixed := make([]string, len(del))
			for i, k := range del {
				prefixed[i] = b.key(k)
			}
			pipe.Del(ctx, prefixed...)
		}
		for k, v := range set {
			pipe.Set(ctx, b.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("[rediskv.Apply] exec: %w", err)
	}
	return nil
}

func (b *Backend) Close() error {
	return b.client.Close()
}
