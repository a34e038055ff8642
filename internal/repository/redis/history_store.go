package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"insurance-faq-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultHistoryTTL  = time.Hour
	DefaultMaxEntries  = 6
	historyKeyTemplate = "chat:history:%s"
)

// HistoryStore keeps a short rolling window of conversation turns per
// session. The list is capped so the contextualizer prompt stays bounded.
type HistoryStore struct {
	client     *redis.Client
	ttl        time.Duration
	maxEntries int
}

func NewHistoryStore(client *redis.Client, ttl time.Duration, maxEntries int) *HistoryStore {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &HistoryStore{
		client:     client,
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func historyKey(sessionID string) string {
	return fmt.Sprintf(historyKeyTemplate, sessionID)
}

func (s *HistoryStore) Get(ctx context.Context, sessionID string) ([]store.HistoryEntry, error) {
	items, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	entries := make([]store.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry store.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue // skip corrupt turns rather than failing the request
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *HistoryStore) Append(ctx context.Context, sessionID, role, content string) error {
	payload, err := json.Marshal(store.HistoryEntry{Role: role, Content: content})
	if err != nil {
		return err
	}

	key := historyKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	// Keep only the newest maxEntries turns.
	pipe.LTrim(ctx, key, int64(-s.maxEntries), -1)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Clear drops one session's history.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, historyKey(sessionID)).Err()
}
