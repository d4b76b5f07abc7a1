package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/presmtech/storefront/cart/pkg/model"
	"github.com/presmtech/storefront/internal/errors"
)

const KEY_CARTS = "carts:%s"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store keeping one JSON document per session key.
// ttl of zero keeps carts forever, matching the storefront's historic
// behavior; a positive ttl is refreshed on every save.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(c context.Context, sessionID string) (*model.Cart, error) {
	cacheKey := fmt.Sprintf(KEY_CARTS, sessionID)

	payload, err := s.client.Get(c, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("sessionId=%s with error=%w", sessionID, errors.ErrCartNotFound)
		}
		return nil, fmt.Errorf("failed loading cart sessionId=%s with error=%w", sessionID, err)
	}

	cart := model.Cart{}
	err = json.Unmarshal([]byte(payload), &cart)
	if err != nil {
		return nil, fmt.Errorf("failed unmarshaling cart sessionId=%s with error=%w", sessionID, err)
	}
	return &cart, nil
}

func (s *redisStore) Save(c context.Context, cart *model.Cart) error {
	cacheKey := fmt.Sprintf(KEY_CARTS, cart.SessionID)
	loadedVersion := cart.Version

	err := s.client.Watch(c, func(tx *redis.Tx) error {
		current, err := tx.Get(c, cacheKey).Result()
		switch {
		case err == redis.Nil:
			if loadedVersion != 0 {
				return fmt.Errorf(
					"sessionId=%s cart disappeared under loaded version=%d with error=%w",
					cart.SessionID,
					loadedVersion,
					errors.ErrVersionConflict,
				)
			}
		case err != nil:
			return fmt.Errorf("failed reading current cart with error=%w", err)
		default:
			stored := model.Cart{}
			if err := json.Unmarshal([]byte(current), &stored); err != nil {
				return fmt.Errorf("failed unmarshaling current cart with error=%w", err)
			}
			if stored.Version != loadedVersion {
				return fmt.Errorf(
					"sessionId=%s stored version=%d loaded version=%d with error=%w",
					cart.SessionID,
					stored.Version,
					loadedVersion,
					errors.ErrVersionConflict,
				)
			}
		}

		cart.Version = loadedVersion + 1
		payload, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("failed marshaling cart with error=%w", err)
		}

		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, cacheKey, payload, s.ttl)
			return nil
		})
		return err
	}, cacheKey)
	if err != nil {
		cart.Version = loadedVersion
		if err == redis.TxFailedErr {
			return fmt.Errorf(
				"sessionId=%s watched key changed with error=%w",
				cart.SessionID,
				errors.ErrVersionConflict,
			)
		}
		return err
	}
	return nil
}

func (s *redisStore) Delete(c context.Context, sessionID string) error {
	cacheKey := fmt.Sprintf(KEY_CARTS, sessionID)
	err := s.client.Del(c, cacheKey).Err()
	if err != nil {
		return fmt.Errorf("failed deleting cart sessionId=%s with error=%w", sessionID, err)
	}
	return nil
}
