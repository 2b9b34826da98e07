package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachingGenerator serves repeated identical requests from memory.
// Only successful responses are cached.
type CachingGenerator struct {
	next   Generator
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewCachingGenerator wraps next with an in-memory cache whose entries expire
// after ttl.
func NewCachingGenerator(next Generator, ttl time.Duration) *CachingGenerator {
	return &CachingGenerator{
		next:   next,
		cache:  gocache.New(ttl, 2*ttl),
		logger: slog.Default().With("component", "response_cache"),
	}
}

type bypassCacheKey struct{}

// BypassCache marks ctx so response caches ask the backend again. The fresh
// response still replaces the cached one.
func BypassCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassCacheKey{}).(bool)
	return bypass
}

func (c *CachingGenerator) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	key := cacheKey(prompt, params)

	if cacheBypassed(ctx) {
		c.logger.Debug("cache bypassed", "key", key[:12])
	} else if cached, found := c.cache.Get(key); found {
		response := cached.(string)
		c.logger.Debug("cache hit",
			"key", key[:12],
			"response_length", len(response))
		return response, nil
	}

	response, err := c.next.Generate(ctx, prompt, params)
	if err != nil {
		return "", err
	}

	c.cache.SetDefault(key, response)
	c.logger.Debug("cache entry saved",
		"key", key[:12],
		"prompt_length", len(prompt))
	return response, nil
}

// Name reports the wrapped backend's name.
func (c *CachingGenerator) Name() string {
	return backendName(c.next)
}

// Len returns the number of unexpired entries.
func (c *CachingGenerator) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(prompt string, params Params) string {
	h := sha256.New()
	fmt.Fprintf(h, "%g|%g|%d|%d|", params.Temperature, params.TopP, params.TopK, params.MaxTokens)
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
