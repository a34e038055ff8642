package redis

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"insurance-faq-be/internal/pkg/logger"
	"insurance-faq-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const DefaultAnswerTTL = 24 * time.Hour

// QACache is the exact-match answer tier. One key per normalized
// (product scope, language, question) triple.
type QACache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewQACache(client *redis.Client, ttl time.Duration, log logger.ILogger) *QACache {
	if ttl <= 0 {
		ttl = DefaultAnswerTTL
	}
	return &QACache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Key layout: faq:qa:{scope}:{lang}:{md5 of normalized question}.
func cacheKey(product, language, question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("faq:qa:%s:%s:%s", product, language, hex.EncodeToString(sum[:]))
}

func (c *QACache) Get(ctx context.Context, product, language, question string) (*store.CachedAnswer, bool) {
	raw, err := c.client.Get(ctx, cacheKey(product, language, question)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("qa_cache", "redis get failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var answer store.CachedAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		// Malformed payload counts as a miss, the entry will age out.
		c.logger.Warn("qa_cache", "malformed cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return &answer, true
}

func (c *QACache) Set(ctx context.Context, product, language, question string, answer *store.CachedAnswer) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(product, language, question), payload, c.ttl).Err()
}

// Clear removes every cached answer. Admin maintenance only.
func (c *QACache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "faq:qa:*", 200).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
