package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"esgcheck/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConflict        = errors.New("session was modified concurrently")
)

const maxUpdateRetries = 5

// SessionCache holds in-progress assessment sessions
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	// Update applies fn to the stored session atomically. If fn returns an
	// error nothing is written and the error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error)
	// DeleteIf removes the session only if check accepts the stored state,
	// in the same transaction that read it.
	DeleteIf(ctx context.Context, id string, check func(*model.Session) error) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache; sessions expire ttl after their
// last write.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("assessment:session:%s", id)
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update runs an optimistic WATCH/MULTI transaction and retries when
// another writer touched the key in between.
func (c *sessionCache) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	key := c.key(id)
	var updated *model.Session

	txf := func(tx *redis.Tx) error {
		session, err := readWatched(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}

		out, err := json.Marshal(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, c.ttl)
			return nil
		})
		if err == nil {
			updated = session
		}
		return err
	}

	if err := c.watch(ctx, key, txf); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *sessionCache) DeleteIf(ctx context.Context, id string, check func(*model.Session) error) error {
	key := c.key(id)
	return c.watch(ctx, key, func(tx *redis.Tx) error {
		session, err := readWatched(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := check(session); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	})
}

// watch retries txf while other writers keep touching key
func (c *sessionCache) watch(ctx context.Context, key string, txf func(*redis.Tx) error) error {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := c.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return ErrConflict
}

func readWatched(ctx context.Context, tx *redis.Tx, key string) (*model.Session, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
