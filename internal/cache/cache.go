// Package cache stores finalized evaluation results in Redis. Evaluation is
// deterministic, so a result is keyed by a digest of the canonical request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"basegraph.app/eleot/internal/evaluation"
)

const keyPrefix = "eleot:eval:"

// keyVersion is bumped whenever reference data changes what a request scores.
const keyVersion = "v1"

// EvaluationCache looks up and stores evaluation views.
type EvaluationCache interface {
	// Get reports false on a miss. A non-nil error means the lookup itself failed.
	Get(ctx context.Context, key string) (*evaluation.View, bool, error)
	Set(ctx context.Context, key string, view *evaluation.View) error
}

type redisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) EvaluationCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (*evaluation.View, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var view evaluation.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false, fmt.Errorf("decoding cached view: %w", err)
	}
	return &view, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, view *evaluation.View) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encoding view: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

type canonicalRequest struct {
	Version      string            `json:"v"`
	Description  string            `json:"d"`
	Environments []string          `json:"e"`
	Language     string            `json:"l"`
	Skipped      bool              `json:"s"`
	Answers      map[string]string `json:"a,omitempty"`
}

// Key derives the cache key of req. Environment order is kept because it
// drives output order; answer order is irrelevant since maps marshal sorted.
func Key(req evaluation.Request) string {
	c := canonicalRequest{
		Version:     keyVersion,
		Description: req.Description,
		Language:    string(req.Language),
	}
	if c.Language == "" {
		c.Language = "ar"
	}
	for _, env := range req.Environments {
		if env = strings.ToUpper(strings.TrimSpace(env)); env != "" {
			c.Environments = append(c.Environments, env)
		}
	}
	if req.Clarifications != nil {
		c.Skipped = req.Clarifications.Skipped
		if !c.Skipped && len(req.Clarifications.Answers) > 0 {
			c.Answers = req.Clarifications.Answers
		}
	}

	// Marshal of this struct cannot fail.
	raw, _ := json.Marshal(c)
	sum := sha256.Sum256(raw)
	return keyPrefix + hex.EncodeToString(sum[:])
}
