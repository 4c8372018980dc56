//go:build integration

package height_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentgate/internal/height"
	id "consentgate/pkg/domain"
	"consentgate/pkg/testutil/containers"
)

func TestRedisHeight(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	src := height.NewRedis(rc.Client, rc.Client.Key("height"))

	t.Run("missing key reads as zero", func(t *testing.T) {
		h, err := src.CurrentHeight(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.Height(0), h)
	})

	t.Run("set ignores lower values", func(t *testing.T) {
		h, err := src.Set(ctx, 40)
		require.NoError(t, err)
		assert.Equal(t, id.Height(40), h)

		h, err = src.Set(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, id.Height(40), h)
	})

	t.Run("advance is visible to other readers", func(t *testing.T) {
		h, err := src.Advance(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, id.Height(42), h)

		other := height.NewRedis(rc.Client, rc.Client.Key("height"))
		got, err := other.CurrentHeight(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.Height(42), got)
	})

	t.Run("large heights compare exactly", func(t *testing.T) {
		big := id.Height(id.MaxValue - 1)
		h, err := src.Set(ctx, big)
		require.NoError(t, err)
		assert.Equal(t, big, h)

		h, err = src.Set(ctx, big-1)
		require.NoError(t, err)
		assert.Equal(t, big, h)

		raw, err := rc.Client.Get(ctx, rc.Client.Key("height")).Result()
		require.NoError(t, err)
		assert.Equal(t, strconv.FormatUint(uint64(big), 10), raw)
	})
}
