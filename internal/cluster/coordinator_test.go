package cluster

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/types"
)

func newTestCoordinator(t *testing.T, s *fakeSurface) *Coordinator {
	t.Helper()
	c, err := NewCoordinator(Config{Surface: s, Logger: logger.NewTest(t)})
	require.NoError(t, err)
	return c
}

func TestNewCoordinator_Validation(t *testing.T) {
	_, err := NewCoordinator(Config{})
	require.Error(t, err)

	_, err = NewCoordinator(Config{Surface: &fakeSurface{}, FitPaddingPx: -1})
	require.Error(t, err)

	c, err := NewCoordinator(Config{Surface: &fakeSurface{}})
	require.NoError(t, err)
	require.Equal(t, DefaultFitPaddingPx, c.padding)
	require.Equal(t, DefaultBadgeConfig(), c.badges)
}

func TestCoordinator_LazyLayerCreation(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	require.Equal(t, 0, s.layerCount())

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1), handle("b", 2, 2)})
	require.Equal(t, 1, s.layerCount())
	require.Equal(t, []types.MarkerRef{"ref-a", "ref-b"}, s.current().sortedMembers())
	require.Equal(t, 0, s.current().adds, "initial members are passed at creation")

	c.AddMembers([]types.MarkerHandle{handle("c", 3, 3)})
	require.Equal(t, 1, s.layerCount(), "incremental add reuses the layer")
	require.Equal(t, 1, s.current().adds)

	c.RemoveMembers([]types.MarkerHandle{handle("a", 1, 1)})
	require.Equal(t, []types.MarkerRef{"ref-b", "ref-c"}, s.current().sortedMembers())
	require.Equal(t, []types.MarkerRef{"ref-b", "ref-c"}, c.Members())
}

func TestCoordinator_RebuildOnlyOnRebuild(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})
	for i := 0; i < 5; i++ {
		c.AddMembers([]types.MarkerHandle{handle(string(rune('b'+i)), 1, 1)})
	}
	c.RemoveMembers([]types.MarkerHandle{handle("b", 1, 1)})
	require.Equal(t, 1, s.layerCount(), "add/remove never recreate the layer")

	first := s.current()
	c.Rebuild([]types.MarkerHandle{handle("a", 1, 1), handle("z", 2, 2)}, types.ThemeDark)

	require.Equal(t, 2, s.layerCount())
	require.True(t, first.destroyed)
	require.Equal(t, types.ThemeDark, s.current().opts.Renderer.Theme())
	require.Equal(t, []types.MarkerRef{"ref-a", "ref-z"}, s.current().sortedMembers())
	require.Equal(t, types.ThemeDark, c.Theme())
}

func TestCoordinator_RebuildWithoutMembersLeavesNoLayer(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	c.Rebuild(nil, types.ThemeDark)
	require.Equal(t, 0, s.layerCount())

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})
	require.Equal(t, types.ThemeDark, s.current().opts.Renderer.Theme())
}

func TestCoordinator_ReentrantOperationsAreQueuedAndCoalesced(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	// While the first layer is being created, more requests arrive.
	s.onCreate = func() {
		c.AddMembers([]types.MarkerHandle{handle("b", 2, 2)})
		c.RemoveMembers([]types.MarkerHandle{handle("a", 1, 1)})
		require.Equal(t, 2, c.Pending())
		c.Rebuild([]types.MarkerHandle{handle("b", 2, 2), handle("c", 3, 3)}, types.ThemeDark)
		require.Equal(t, 1, c.Pending(), "rebuild supersedes queued incremental ops")
		c.AddMembers([]types.MarkerHandle{handle("d", 4, 4)})
		require.Equal(t, 1, c.Pending(), "ops after a queued rebuild are folded into it")
	}

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})

	require.Equal(t, 0, c.Pending())
	require.Equal(t, 2, s.layerCount())
	require.True(t, s.layers[0].destroyed)
	require.Equal(t, []types.MarkerRef{"ref-b", "ref-c", "ref-d"}, s.current().sortedMembers())
	require.Equal(t, types.ThemeDark, s.current().opts.Renderer.Theme())
}

func TestCoordinator_NoDuplicateAddAfterLazyCreate(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	s.onCreate = func() {
		c.AddMembers([]types.MarkerHandle{handle("b", 2, 2)})
	}
	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})

	// The layer was created from the snapshot {a}; b arrives incrementally once.
	require.Equal(t, []types.MarkerRef{"ref-a", "ref-b"}, s.current().sortedMembers())
}

func TestCoordinator_ConcurrentCallers(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		h := handle(string(rune('A'+i)), float64(i), float64(i))
		wg.Go(func() {
			c.AddMembers([]types.MarkerHandle{h})
		})
	}
	wg.Wait()

	require.Equal(t, 1, s.layerCount())
	require.Len(t, s.current().sortedMembers(), 20)
	require.Len(t, c.Members(), 20)
}

func TestCoordinator_ClusterClickFitsBounds(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	c.AddMembers([]types.MarkerHandle{handle("a", 10, 20), handle("b", -5, 30), handle("c", 50, 50)})

	s.current().opts.OnClusterClick([]types.MarkerRef{"ref-a", "ref-b", "ref-unknown"})

	require.Len(t, s.fits, 1)
	require.Equal(t, types.Bounds{South: -5, West: 20, North: 10, East: 30}, s.fits[0])
	require.Equal(t, []int{50}, s.paddings)

	_, ok := c.HandleClusterClick([]types.MarkerRef{"ref-unknown"})
	require.False(t, ok)
	require.Len(t, s.fits, 1)
}

func TestCoordinator_SurfaceErrors(t *testing.T) {
	s := &fakeSurface{failLayer: true}
	var ops []string
	c, err := NewCoordinator(Config{
		Surface:        s,
		OnSurfaceError: func(op string, _ error) { ops = append(ops, op) },
	})
	require.NoError(t, err)

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})
	require.Equal(t, []string{"cluster_create"}, ops)

	// next add retries creation with every member
	s.failLayer = false
	c.AddMembers([]types.MarkerHandle{handle("b", 1, 1)})
	require.Equal(t, []types.MarkerRef{"ref-a", "ref-b"}, s.current().sortedMembers())

	s.failFit = true
	_, ok := c.HandleClusterClick([]types.MarkerRef{"ref-a"})
	require.False(t, ok)
	require.Equal(t, []string{"cluster_create", "fit_bounds"}, ops)
}

func TestCoordinator_Close(t *testing.T) {
	s := &fakeSurface{}
	c := newTestCoordinator(t, s)

	c.AddMembers([]types.MarkerHandle{handle("a", 1, 1)})
	c.Close()
	require.True(t, s.current().destroyed)

	c.AddMembers([]types.MarkerHandle{handle("b", 1, 1)})
	c.Rebuild([]types.MarkerHandle{handle("b", 1, 1)}, types.ThemeDark)
	require.Equal(t, 1, s.layerCount())
	require.NotPanics(t, c.Close)
}
