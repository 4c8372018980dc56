package height

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consentgate/pkg/domain"
)

func TestManual(t *testing.T) {
	ctx := context.Background()
	m := NewManual(5)

	h, err := m.CurrentHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.Height(5), h)

	assert.Equal(t, id.Height(15), m.Advance(10))
	assert.Equal(t, id.Height(15), m.Set(3), "heights never decrease")
	assert.Equal(t, id.Height(20), m.Set(20))
}

func TestWallclock(t *testing.T) {
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := NewWallclock(genesis, time.Minute)
	ctx := context.Background()

	w.now = func() time.Time { return genesis.Add(-time.Hour) }
	h, err := w.CurrentHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.Height(0), h)

	w.now = func() time.Time { return genesis.Add(90 * time.Second) }
	h, _ = w.CurrentHeight(ctx)
	assert.Equal(t, id.Height(1), h)

	w.now = func() time.Time { return genesis.Add(10 * time.Minute) }
	h, _ = w.CurrentHeight(ctx)
	assert.Equal(t, id.Height(10), h)

	// Clock skew backwards does not lower the height.
	w.now = func() time.Time { return genesis.Add(2 * time.Minute) }
	h, _ = w.CurrentHeight(ctx)
	assert.Equal(t, id.Height(10), h)
}

func TestPinAndRead(t *testing.T) {
	src := NewManual(7)
	ctx := context.Background()

	h, err := Read(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, id.Height(7), h)

	pinned := Pin(ctx, 3)
	src.Advance(100)
	h, err = Read(pinned, src)
	require.NoError(t, err)
	assert.Equal(t, id.Height(3), h)
}
