package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableCatalog() *Catalog {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewCatalog(client, time.Minute)
}

func TestCatalogKey(t *testing.T) {
	c := NewCatalog(nil, time.Minute)

	assert.Equal(t, "storefront:catalog:products:featured:8", c.key("products:featured:8"))
}

func TestCatalogUnreachable(t *testing.T) {
	c := unreachableCatalog()
	defer c.client.Close()
	ctx := context.Background()

	var dst []string
	hit, err := c.Get(ctx, "categories", &dst)
	assert.Error(t, err)
	assert.False(t, hit)

	assert.Error(t, c.Set(ctx, "categories", []string{"silk"}))
}

func TestNewRedisClientFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0)

	assert.Error(t, err)
	assert.Nil(t, client)
}
