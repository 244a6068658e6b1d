package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"broadcaster/internal/domain"
)

// getTestClient creates a Redis client for testing.
// Skips the test if Redis is not available.
func getTestClient(t *testing.T) *Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := NewClient(context.Background(), Config{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           15, // separate DB for tests
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     5,
		MinIdleConns: 1,
	})
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func sampleTemplates() []domain.MessageTemplate {
	return []domain.MessageTemplate{
		{
			ID:       "tpl-1",
			Name:     "order_update",
			Category: "UTILITY",
			Language: "en_US",
			BodyText: "Hello {{1}}, order {{2}} confirmed",
			Status:   domain.TemplateApproved,
		},
		{
			ID:       "tpl-2",
			Name:     "promo",
			Category: "MARKETING",
			Language: "en_US",
			BodyText: "Sale!",
			Status:   domain.TemplatePending,
		},
	}
}

func TestTemplateCache_SaveAndGet(t *testing.T) {
	client := getTestClient(t)
	cache := NewTemplateCache(client, time.Minute)
	ctx := context.Background()

	_ = cache.InvalidateTemplates(ctx, "user-save")

	require.NoError(t, cache.SaveTemplates(ctx, "user-save", sampleTemplates()))

	got, err := cache.GetTemplates(ctx, "user-save")
	require.NoError(t, err)
	assert.Equal(t, sampleTemplates(), got)

	ttl, err := client.TTL(ctx, "broadcaster:user-save:templates")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	_ = cache.InvalidateTemplates(ctx, "user-save")
}

func TestTemplateCache_Miss(t *testing.T) {
	client := getTestClient(t)
	cache := NewTemplateCache(client, time.Minute)
	ctx := context.Background()

	_ = cache.InvalidateTemplates(ctx, "user-missing")

	_, err := cache.GetTemplates(ctx, "user-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateCache_InvalidateAll(t *testing.T) {
	client := getTestClient(t)
	cache := NewTemplateCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SaveTemplates(ctx, "user-a", sampleTemplates()))
	require.NoError(t, cache.SaveTemplates(ctx, "user-b", sampleTemplates()))

	deleted, err := cache.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, 2)

	_, err = cache.GetTemplates(ctx, "user-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cache.GetTemplates(ctx, "user-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_DeleteMatchingAcrossScanPages(t *testing.T) {
	client := getTestClient(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, client.Set(ctx, fmt.Sprintf("broadcaster-test:purge:%d", i), "x", time.Minute))
	}
	require.NoError(t, client.Set(ctx, "broadcaster-test:keep", "x", time.Minute))
	t.Cleanup(func() { _ = client.Del(context.Background(), "broadcaster-test:keep") })

	deleted, err := client.DeleteMatching(ctx, "broadcaster-test:purge:*", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, deleted)

	_, err = client.Get(ctx, "broadcaster-test:purge:0")
	assert.ErrorIs(t, err, goredis.Nil)
	kept, err := client.Get(ctx, "broadcaster-test:keep")
	require.NoError(t, err)
	assert.Equal(t, "x", kept)

	deleted, err = client.DeleteMatching(ctx, "broadcaster-test:purge:*", 10)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestNewUniversal_SelectsTopology(t *testing.T) {
	cluster := newUniversal(Config{Addr: "localhost:7000", ClusterMode: true})
	t.Cleanup(func() { _ = cluster.Close() })
	assert.IsType(t, &goredis.ClusterClient{}, cluster)

	single := newUniversal(Config{Addr: "localhost:6379"})
	t.Cleanup(func() { _ = single.Close() })
	assert.IsType(t, &goredis.Client{}, single)
}
