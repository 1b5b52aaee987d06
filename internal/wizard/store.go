// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long an abandoned wizard session lives in Valkey.
	DefaultTTL = 2 * time.Hour

	// keyPrefix namespaces wizard keys in Valkey to avoid collisions.
	keyPrefix = "wizard:"
)

// Store persists wizard machines in Valkey. Keys carry the owner's user
// id, so a wizard id only resolves for the user who started it. Each
// step request loads the machine, applies one transition, and saves it
// back.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a wizard store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultTTL}
}

// key builds the Valkey key for one user's wizard session.
func key(userID uuid.UUID, id string) string {
	return keyPrefix + userID.String() + ":" + id
}

// Start creates a fresh machine owned by userID, persists it, and
// returns its id.
func (s *Store) Start(ctx context.Context, userID uuid.UUID) (string, *Machine, error) {
	id := uuid.New().String()
	m := New()
	if err := s.Save(ctx, userID, id, m); err != nil {
		return "", nil, err
	}
	return id, m, nil
}

// Get loads the machine for the given owner and wizard id. Returns nil
// if the session expired, never existed, or belongs to another user.
func (s *Store) Get(ctx context.Context, userID uuid.UUID, id string) (*Machine, error) {
	payload, err := s.client.Get(ctx, key(userID, id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wizard get: %w", err)
	}

	var m Machine
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("wizard unmarshal: %w", err)
	}
	return &m, nil
}

// Save writes the machine back to Valkey and resets the TTL.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, id string, m *Machine) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("wizard marshal: %w", err)
	}
	if err := s.client.Set(ctx, key(userID, id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("wizard save: %w", err)
	}
	return nil
}

// Delete removes a wizard session, typically after generation completes.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	if err := s.client.Del(ctx, key(userID, id)).Err(); err != nil {
		return fmt.Errorf("wizard delete: %w", err)
	}
	return nil
}
