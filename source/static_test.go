package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark/types"
)

func TestStatic_ListPoints(t *testing.T) {
	t.Run("returns all points in order", func(t *testing.T) {
		points := []types.Point{
			types.At("b", 1, 1, "B"),
			types.At("a", 2, 2, "A"),
			types.At("c", 3, 3, "C"),
		}
		src := NewStatic(points)

		result, err := src.ListPoints(context.Background())

		require.NoError(t, err)
		require.Equal(t, points, result)
	})

	t.Run("returns empty list when no points", func(t *testing.T) {
		src := NewStatic(nil)

		result, err := src.ListPoints(context.Background())

		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("does not share positions with callers", func(t *testing.T) {
		points := []types.Point{types.At("p1", 10, 20, "")}
		src := NewStatic(points)

		// Modify the input after construction
		points[0].Position.Lat = 99

		result, err := src.ListPoints(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 10.0, result[0].Position.Lat, 1e-9)

		// Modify returned slice
		result[0].Position.Lng = -5

		again, _ := src.ListPoints(context.Background())
		require.InDelta(t, 20.0, again[0].Position.Lng, 1e-9)
	})
}

func TestStatic_Update(t *testing.T) {
	src := NewStatic([]types.Point{types.At("p1", 0, 0, "")})

	select {
	case <-src.Changes():
		t.Fatal("no change signal expected before Update")
	default:
	}

	src.Update([]types.Point{types.At("p2", 1, 1, "")})
	src.Update([]types.Point{types.At("p3", 2, 2, "")})

	// both updates coalesce into one signal
	select {
	case <-src.Changes():
	default:
		t.Fatal("expected change signal")
	}
	select {
	case <-src.Changes():
		t.Fatal("signals should be coalesced")
	default:
	}

	result, err := src.ListPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "p3", result[0].ID)
}
