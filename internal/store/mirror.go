package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/weights"
)

// #region keys

const (
	mirrorStateKey = "affect:state"
	mirrorBankKey  = "affect:bank"
)

// #endregion keys

// #region mirror

// Mirror keeps the live affect state and bank in Redis so external readers
// (dashboards, sibling agents) can poll without touching SQLite. Strictly a
// cache: SQLite stays the source of truth and mirror failures are never
// fatal to a cycle.
type Mirror struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMirror wraps an existing Redis client. ttl bounds staleness when the
// daemon stops publishing.
func NewMirror(rdb *redis.Client, ttl time.Duration) *Mirror {
	return &Mirror{rdb: rdb, ttl: ttl}
}

// Publish writes the current state and bank under fixed keys.
func (m *Mirror) Publish(ctx context.Context, st affect.State, b weights.Bank) error {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	bankJSON, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}

	pipe := m.rdb.Pipeline()
	pipe.Set(ctx, mirrorStateKey, stateJSON, m.ttl)
	pipe.Set(ctx, mirrorBankKey, bankJSON, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish mirror: %w", err)
	}
	return nil
}

// LiveState reads the mirrored affect state. The second return is false
// when no mirror entry exists (expired or never published).
func (m *Mirror) LiveState(ctx context.Context) (affect.State, bool, error) {
	raw, err := m.rdb.Get(ctx, mirrorStateKey).Result()
	if err == redis.Nil {
		return affect.State{}, false, nil
	}
	if err != nil {
		return affect.State{}, false, fmt.Errorf("read mirror state: %w", err)
	}
	var st affect.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return affect.State{}, false, fmt.Errorf("unmarshal mirror state: %w", err)
	}
	return st, true, nil
}

// LiveBank reads the mirrored sensitivity bank.
func (m *Mirror) LiveBank(ctx context.Context) (weights.Bank, bool, error) {
	raw, err := m.rdb.Get(ctx, mirrorBankKey).Result()
	if err == redis.Nil {
		return weights.Bank{}, false, nil
	}
	if err != nil {
		return weights.Bank{}, false, fmt.Errorf("read mirror bank: %w", err)
	}
	var b weights.Bank
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return weights.Bank{}, false, fmt.Errorf("unmarshal mirror bank: %w", err)
	}
	return b, true, nil
}

// #endregion mirror
