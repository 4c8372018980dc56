package tx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentgate/pkg/domain-errors"
)

func TestMemoryRunner(t *testing.T) {
	t.Run("propagates fn error", func(t *testing.T) {
		r := NewMemoryRunner(0)
		want := errors.New("rejected")
		err := r.RunInTx(context.Background(), func(context.Context) error { return want })
		assert.ErrorIs(t, err, want)
	})

	t.Run("nested calls re-enter without deadlock", func(t *testing.T) {
		r := NewMemoryRunner(0)
		calls := 0
		err := r.RunInTx(context.Background(), func(ctx context.Context) error {
			calls++
			return r.RunInTx(ctx, func(context.Context) error {
				calls++
				return nil
			})
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("cancelled context is rejected before running", func(t *testing.T) {
		r := NewMemoryRunner(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ran := false
		err := r.RunInTx(ctx, func(context.Context) error {
			ran = true
			return nil
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		assert.False(t, ran)
	})

	t.Run("serializes concurrent units", func(t *testing.T) {
		r := NewMemoryRunner(0)
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.RunInTx(context.Background(), func(context.Context) error {
					v := counter
					counter = v + 1
					return nil
				})
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, counter)
	})
}
