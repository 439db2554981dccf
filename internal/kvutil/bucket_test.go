package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	pinmarktest "github.com/arloliu/pinmark/testing"
)

func TestEnsureKVBucketWithRetry(t *testing.T) {
	_, nc := pinmarktest.StartEmbeddedNATS(t)

	ctx := context.Background()
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates missing bucket", func(t *testing.T) {
		kv, err := EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
			Bucket:  "points-create",
			History: 1,
		}, 3)
		require.NoError(t, err)
		require.Equal(t, "points-create", kv.Bucket())
	})

	t.Run("opens existing bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "points-existing", History: 1}
		first, err := js.CreateKeyValue(ctx, cfg)
		require.NoError(t, err)
		_, err = first.Put(ctx, "fleet", []byte(`[]`))
		require.NoError(t, err)

		kv, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)

		entry, err := kv.Get(ctx, "fleet")
		require.NoError(t, err)
		require.Equal(t, `[]`, string(entry.Value()))
	})

	t.Run("concurrent publishers share one bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "points-concurrent", History: 1}
		const publishers = 8

		var wg sync.WaitGroup
		errs := make(chan error, publishers)
		for range publishers {
			wg.Go(func() {
				if _, err := EnsureKVBucketWithRetry(ctx, js, cfg, 5); err != nil {
					errs <- err
				}
			})
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("expired context fails", func(t *testing.T) {
		shortCtx, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		_, err := EnsureKVBucketWithRetry(shortCtx, js, jetstream.KeyValueConfig{
			Bucket: "points-timeout",
		}, 3)
		require.Error(t, err)
		require.Contains(t, err.Error(), "context")
	})
}
