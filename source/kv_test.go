package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark"
	"github.com/arloliu/pinmark/source"
	"github.com/arloliu/pinmark/surface"
	pinmarktest "github.com/arloliu/pinmark/testing"
	"github.com/arloliu/pinmark/types"
)

func waitChange(t *testing.T, src *source.KV) {
	t.Helper()

	select {
	case <-src.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestNewKV_Validation(t *testing.T) {
	_, err := source.NewKV(nil, "fleet")
	require.Error(t, err)

	_, nc := pinmarktest.StartEmbeddedNATS(t)
	kv := pinmarktest.CreatePointsKV(t, nc, "validation")
	_, err = source.NewKV(kv, "")
	require.Error(t, err)
}

func TestKV_ListPoints(t *testing.T) {
	_, nc := pinmarktest.StartEmbeddedNATS(t)
	kv := pinmarktest.CreatePointsKV(t, nc, "list")
	ctx := context.Background()

	src, err := source.NewKV(kv, "fleet")
	require.NoError(t, err)

	t.Run("missing key is empty", func(t *testing.T) {
		points, err := src.ListPoints(ctx)
		require.NoError(t, err)
		require.Empty(t, points)
	})

	t.Run("reads published points", func(t *testing.T) {
		want := []types.Point{
			types.At("depot-1", 52.52, 13.405, "Berlin"),
			{ID: "no-coords", Label: "pending"},
		}
		rev, err := src.Publish(ctx, want)
		require.NoError(t, err)

		points, err := src.ListPoints(ctx)
		require.NoError(t, err)
		require.Equal(t, want, points)
		require.Equal(t, rev, src.Revision())
	})

	t.Run("undecodable document is an error", func(t *testing.T) {
		_, err := kv.Put(ctx, "broken", []byte(`{"not":"an array"}`))
		require.NoError(t, err)

		broken, err := source.NewKV(kv, "broken")
		require.NoError(t, err)

		_, err = broken.ListPoints(ctx)
		require.Error(t, err)
	})
}

func TestKV_Run(t *testing.T) {
	_, nc := pinmarktest.StartEmbeddedNATS(t)
	kv := pinmarktest.CreatePointsKV(t, nc, "run")
	log := pinmarktest.NewTestLogger(t)

	src, err := source.NewKV(kv, "fleet", source.WithKVLogger(log))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx)
	}()

	// replay of a missing key yields an empty set
	waitChange(t, src)
	points, err := src.ListPoints(ctx)
	require.NoError(t, err)
	require.Empty(t, points)

	first := []types.Point{types.At("a", 1, 1, "A"), types.At("b", 2, 2, "B")}
	_, err = src.Publish(ctx, first)
	require.NoError(t, err)
	waitChange(t, src)

	points, err = src.ListPoints(ctx)
	require.NoError(t, err)
	require.Equal(t, first, points)

	// a bad document is skipped; the next good one is applied
	_, err = kv.Put(ctx, "fleet", []byte(`not json`))
	require.NoError(t, err)
	second := []types.Point{types.At("c", 3, 3, "C")}
	rev, err := src.Publish(ctx, second)
	require.NoError(t, err)
	waitChange(t, src)

	require.Eventually(t, func() bool {
		return src.Revision() == rev
	}, 5*time.Second, 10*time.Millisecond)
	points, err = src.ListPoints(ctx)
	require.NoError(t, err)
	require.Equal(t, second, points)
	require.True(t, log.Has("WARN", "undecodable"))

	require.NoError(t, kv.Delete(ctx, "fleet"))
	require.Eventually(t, func() bool {
		pts, err := src.ListPoints(ctx)
		return err == nil && len(pts) == 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOpenKV(t *testing.T) {
	_, nc := pinmarktest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	src, err := source.OpenKV(context.Background(), js, "opened", "fleet")
	require.NoError(t, err)

	_, err = src.Publish(context.Background(), []types.Point{types.At("x", 0, 0, "")})
	require.NoError(t, err)

	again, err := source.OpenKV(context.Background(), js, "opened", "fleet")
	require.NoError(t, err)
	points, err := again.ListPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)
}

func TestKV_DrivesEngine(t *testing.T) {
	_, nc := pinmarktest.StartEmbeddedNATS(t)
	kv := pinmarktest.CreatePointsKV(t, nc, "engine")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := source.NewKV(kv, "fleet")
	require.NoError(t, err)
	_, err = src.Publish(ctx, []types.Point{
		types.At("a", 10, 10, ""),
		types.At("b", 11, 11, ""),
	})
	require.NoError(t, err)

	surf := surface.NewMemory()
	cfg := pinmark.DefaultConfig()
	eng, err := pinmark.NewEngine(&cfg, surf, pinmark.WithLogger(pinmarktest.NewTestLogger(t)))
	require.NoError(t, err)
	require.NoError(t, eng.Start(ctx))
	defer func() { _ = eng.Stop(context.Background()) }()

	go func() { _ = src.Run(ctx) }()
	go func() { _ = eng.Watch(ctx, src) }()

	require.Eventually(t, func() bool {
		ids := surf.MarkerIDs()
		return len(ids) == 2 && ids[0] == "a"
	}, 5*time.Second, 10*time.Millisecond)

	_, err = src.Publish(ctx, []types.Point{
		types.At("a", 10, 10, ""),
		types.At("b", 11, 11, ""),
		types.At("c", 12, 12, ""),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(surf.MarkerIDs()) == 3
	}, 5*time.Second, 10*time.Millisecond)
}
