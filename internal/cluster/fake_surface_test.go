package cluster

import (
	"errors"
	"slices"
	"sync"

	"github.com/arloliu/pinmark/types"
)

var errInjected = errors.New("injected")

// fakeSurface records clustering calls.
type fakeSurface struct {
	mu        sync.Mutex
	layers    []*fakeLayer
	fits      []types.Bounds
	paddings  []int
	failLayer bool
	failFit   bool

	// onCreate runs inside CreateClusterLayer, to simulate re-entrant callers.
	onCreate func()
}

func (s *fakeSurface) Ready() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (s *fakeSurface) CreateMarker(types.MarkerSpec) (types.MarkerRef, error) {
	return "", errors.New("not supported")
}
func (s *fakeSurface) RemoveMarker(types.MarkerRef) error        { return nil }
func (s *fakeSurface) SetIcon(types.MarkerRef, types.Icon) error { return nil }
func (s *fakeSurface) SetOpacity(types.MarkerRef, float64) error { return nil }

func (s *fakeSurface) CreateClusterLayer(opts types.ClusterLayerOptions) (types.ClusterLayer, error) {
	if hook := s.onCreate; hook != nil {
		s.onCreate = nil
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLayer {
		return nil, errInjected
	}
	l := &fakeLayer{opts: opts, members: slices.Clone(opts.Members)}
	s.layers = append(s.layers, l)

	return l, nil
}

func (s *fakeSurface) FitBounds(b types.Bounds, padding int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFit {
		return errInjected
	}
	s.fits = append(s.fits, b)
	s.paddings = append(s.paddings, padding)

	return nil
}

func (s *fakeSurface) layerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

func (s *fakeSurface) current() *fakeLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

type fakeLayer struct {
	mu        sync.Mutex
	opts      types.ClusterLayerOptions
	members   []types.MarkerRef
	adds      int
	removes   int
	destroyed bool
}

func (l *fakeLayer) AddMarkers(refs []types.MarkerRef) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return types.ErrLayerDestroyed
	}
	l.adds++
	l.members = append(l.members, refs...)
	return nil
}

func (l *fakeLayer) RemoveMarkers(refs []types.MarkerRef) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return types.ErrLayerDestroyed
	}
	l.removes++
	l.members = slices.DeleteFunc(l.members, func(r types.MarkerRef) bool { return slices.Contains(refs, r) })
	return nil
}

func (l *fakeLayer) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyed = true
	return nil
}

func (l *fakeLayer) sortedMembers() []types.MarkerRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.members)
	slices.Sort(out)
	return out
}

func handle(id string, lat, lng float64) types.MarkerHandle {
	p := types.At(id, lat, lng, id)
	return types.MarkerHandle{ID: id, Ref: types.MarkerRef("ref-" + id), Point: p, Opacity: 1}
}
