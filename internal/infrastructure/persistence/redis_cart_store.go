package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/shared"
)

const guestCartKeyPrefix = "cart:guest:"

// guestCartLine is the JSON value stored per product in a guest cart hash.
// AddedAt preserves line order across reads; Redis hashes do not.
type guestCartLine struct {
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisCartStore implements cart.Store for guest sessions. Each cart is a
// Redis hash keyed by session, one field per product, expiring after the
// configured TTL. Every write refreshes the TTL so active guests never
// lose their cart mid-session.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a guest cart store with the given session TTL
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// Items returns all cart lines for the guest session, oldest first
func (s *RedisCartStore) Items(ctx context.Context, owner cart.Owner) ([]cart.Item, error) {
	key, err := s.requireGuest(owner)
	if err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	items := make([]cart.Item, 0, len(fields))
	for field, raw := range fields {
		productID, err := uuid.Parse(field)
		if err != nil {
			// Unparseable field means a corrupted entry; skip it.
			continue
		}
		var line guestCartLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			continue
		}
		items = append(items, cart.Item{
			BaseEntity: shared.BaseEntity{
				ID:        uuid.New(),
				CreatedAt: line.AddedAt,
				UpdatedAt: line.UpdatedAt,
			},
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// Add creates a line or increments an existing one for the product
func (s *RedisCartStore) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) (*cart.Item, error) {
	key, err := s.requireGuest(owner)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	now := time.Now()
	line := guestCartLine{Quantity: quantity, AddedAt: now, UpdatedAt: now}

	existing, err := s.getLine(ctx, key, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		line.Quantity = existing.Quantity + quantity
		line.AddedAt = existing.AddedAt
	}

	if err := s.putLine(ctx, key, productID, line); err != nil {
		return nil, err
	}

	return &cart.Item{
		BaseEntity: shared.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: line.AddedAt,
			UpdatedAt: line.UpdatedAt,
		},
		ProductID: productID,
		Quantity:  line.Quantity,
	}, nil
}

// UpdateQuantity replaces the quantity of an existing line
func (s *RedisCartStore) UpdateQuantity(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) error {
	key, err := s.requireGuest(owner)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	existing, err := s.getLine(ctx, key, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return shared.ErrNotFound
	}

	existing.Quantity = quantity
	existing.UpdatedAt = time.Now()
	return s.putLine(ctx, key, productID, *existing)
}

// Remove deletes a single line
func (s *RedisCartStore) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	key, err := s.requireGuest(owner)
	if err != nil {
		return err
	}

	removed, err := s.client.HDel(ctx, key, productID.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to remove guest cart line: %w", err)
	}
	if removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Clear deletes the whole cart and reports how many lines were removed.
// HLen and Del run in one MULTI/EXEC block so the count cannot race a
// concurrent checkout.
func (s *RedisCartStore) Clear(ctx context.Context, owner cart.Owner) (int64, error) {
	key, err := s.requireGuest(owner)
	if err != nil {
		return 0, err
	}

	var lenCmd *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lenCmd = pipe.HLen(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return lenCmd.Val(), nil
}

func (s *RedisCartStore) getLine(ctx context.Context, key string, productID uuid.UUID) (*guestCartLine, error) {
	raw, err := s.client.HGet(ctx, key, productID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read guest cart line: %w", err)
	}
	var line guestCartLine
	if err := json.Unmarshal([]byte(raw), &line); err != nil {
		return nil, fmt.Errorf("corrupted guest cart line: %w", err)
	}
	return &line, nil
}

func (s *RedisCartStore) putLine(ctx context.Context, key string, productID uuid.UUID, line guestCartLine) error {
	payload, err := json.Marshal(line)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, productID.String(), payload)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write guest cart line: %w", err)
	}
	return nil
}

func (s *RedisCartStore) requireGuest(owner cart.Owner) (string, error) {
	if err := owner.Validate(); err != nil {
		return "", err
	}
	if !owner.IsGuest() {
		return "", shared.NewDomainError("INVALID_CART_OWNER", "Session cart store only holds guest carts")
	}
	return guestCartKeyPrefix + owner.SessionKey, nil
}

var _ cart.Store = (*RedisCartStore)(nil)
