package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopNeverHits(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	assert.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	found, err := c.GetJSON(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisUnreachable(t *testing.T) {
	c, err := NewRedis("127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, c)
}
