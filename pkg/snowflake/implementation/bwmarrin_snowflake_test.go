package implementation_test

import (
	"sync"
	"testing"

	"github.com/jt828/api-relay/pkg/snowflake/implementation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_Generate(t *testing.T) {
	t.Run("rejects node outside range", func(t *testing.T) {
		_, err := implementation.NewSnowflake(1024)
		assert.Error(t, err)
	})

	t.Run("ids are unique under concurrency", func(t *testing.T) {
		sf, err := implementation.NewSnowflake(7)
		require.NoError(t, err)

		const workers, perWorker = 8, 500
		ids := make(chan int64, workers*perWorker)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					ids <- sf.Generate()
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]struct{}, workers*perWorker)
		for id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
		}
		assert.Len(t, seen, workers*perWorker)
	})

	t.Run("ids increase within a node", func(t *testing.T) {
		sf, err := implementation.NewSnowflake(1)
		require.NoError(t, err)

		prev := sf.Generate()
		for i := 0; i < 100; i++ {
			next := sf.Generate()
			assert.Greater(t, next, prev)
			prev = next
		}
	})
}
