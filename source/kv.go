package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/pinmark/internal/kvutil"
	"github.com/arloliu/pinmark/internal/logger"
	"github.com/arloliu/pinmark/internal/natsutil"
	"github.com/arloliu/pinmark/types"
)

// KV is a point source backed by a JSON document in a NATS JetStream KV bucket.
//
// The document under the key is a JSON array of points:
//
//	[{"id":"depot-1","position":{"lat":52.52,"lng":13.405},"label":"Berlin"}]
//
// A missing, deleted or purged key means an empty point set. Run watches the
// key and keeps a local copy so that ListPoints keeps serving the last known
// points while NATS is unreachable.
type KV struct {
	kv     jetstream.KeyValue
	key    string
	logger types.Logger

	mu       sync.RWMutex
	points   []types.Point
	revision uint64
	cached   bool

	changes chan struct{}
}

var _ types.PointWatcher = (*KV)(nil)

// KVOption configures a KV source.
type KVOption func(*KV)

// WithKVLogger sets the logger used by the KV source.
func WithKVLogger(l types.Logger) KVOption {
	return func(s *KV) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewKV creates a point source reading key from kv.
//
// Parameters:
//   - kv: JetStream KV bucket
//   - key: Key holding the JSON point array
//   - opts: Optional configuration
//
// Returns:
//   - *KV: Point source; call Run to receive change signals
//   - error: Error if kv is nil or key is empty
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	kv, _ := js.KeyValue(ctx, "map-points")
//	src, err := source.NewKV(kv, "fleet")
//	if err != nil { /* handle */ }
//	go src.Run(ctx)
//	go eng.Watch(ctx, src)
func NewKV(kv jetstream.KeyValue, key string, opts ...KVOption) (*KV, error) {
	if kv == nil {
		return nil, errors.New("KV bucket is required")
	}
	if key == "" {
		return nil, errors.New("KV key is required")
	}

	s := &KV{
		kv:      kv,
		key:     key,
		logger:  logger.NewNop(),
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// OpenKV creates or opens bucket and returns a source reading key from it.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - bucket: Bucket name
//   - key: Key holding the JSON point array
//   - opts: Optional configuration
//
// Returns:
//   - *KV: Point source
//   - error: Bucket creation error
func OpenKV(ctx context.Context, js jetstream.JetStream, bucket, key string, opts ...KVOption) (*KV, error) {
	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "pinmark point sets",
		History:     1,
	}, 3)
	if err != nil {
		return nil, err
	}

	return NewKV(kv, key, opts...)
}

// ListPoints returns the points stored under the key.
//
// Once Run has delivered a value the local copy is returned without a round
// trip. Otherwise the key is read; on a connectivity failure the last known
// points are served if there are any.
//
// Returns:
//   - []types.Point: Current points (empty if the key does not exist)
//   - error: Read or decode error
func (s *KV) ListPoints(ctx context.Context) ([]types.Point, error) {
	s.mu.RLock()
	if s.cached {
		points := clonePoints(s.points)
		s.mu.RUnlock()

		return points, nil
	}
	s.mu.RUnlock()

	entry, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, jetstream.ErrKeyNotFound):
		return []types.Point{}, nil
	case err != nil:
		if natsutil.IsConnectivityError(err) {
			if points, ok := s.lastKnown(); ok {
				s.logger.Warn("serving last known points, NATS unreachable", "key", s.key, "error", err)
				return points, nil
			}
		}

		return nil, fmt.Errorf("get %q: %w", s.key, err)
	}

	points, err := DecodePoints(entry.Value())
	if err != nil {
		return nil, fmt.Errorf("decode %q revision %d: %w", s.key, entry.Revision(), err)
	}
	s.store(points, entry.Revision(), false)

	return clonePoints(points), nil
}

// Changes returns a channel that receives a value after each change seen by Run.
func (s *KV) Changes() <-chan struct{} {
	return s.changes
}

// Revision returns the KV revision of the last value seen, 0 if none.
func (s *KV) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.revision
}

// Run watches the key until ctx is cancelled.
//
// Every put replaces the local copy and signals Changes. Values that fail to
// decode are logged and skipped; the previous points stay in effect.
//
// Parameters:
//   - ctx: Context bounding the watch
//
// Returns:
//   - error: Watch setup error, or ctx.Err() on cancellation
func (s *KV) Run(ctx context.Context) error {
	watcher, err := s.kv.Watch(ctx, s.key)
	if err != nil {
		return fmt.Errorf("watch %q: %w", s.key, err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			s.logger.Debug("failed to stop KV watcher", "error", err)
		}
	}()

	s.logger.Debug("watching point key", "bucket", s.kv.Bucket(), "key", s.key)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-watcher.Updates():
			if !ok {
				return ctx.Err()
			}
			if entry == nil {
				// initial replay done
				s.markEmptyIfUnseen()
				continue
			}
			s.apply(entry)
		}
	}
}

// Publish stores points under the key.
//
// Parameters:
//   - ctx: Context for the put
//   - points: Points to store
//
// Returns:
//   - uint64: Revision of the stored value
//   - error: Encode or put error
func (s *KV) Publish(ctx context.Context, points []types.Point) (uint64, error) {
	data, err := EncodePoints(points)
	if err != nil {
		return 0, err
	}

	rev, err := s.kv.Put(ctx, s.key, data)
	if err != nil {
		return 0, fmt.Errorf("put %q: %w", s.key, err)
	}

	return rev, nil
}

// DecodePoints parses a JSON point array. Empty input decodes to no points.
func DecodePoints(data []byte) ([]types.Point, error) {
	if len(data) == 0 {
		return []types.Point{}, nil
	}

	var points []types.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []types.Point{}
	}

	return points, nil
}

// EncodePoints renders points as a JSON array.
func EncodePoints(points []types.Point) ([]byte, error) {
	if points == nil {
		points = []types.Point{}
	}

	data, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}

	return data, nil
}

func (s *KV) apply(entry jetstream.KeyValueEntry) {
	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		s.logger.Info("point key removed", "key", s.key, "revision", entry.Revision())
		s.store([]types.Point{}, entry.Revision(), true)

	default:
		points, err := DecodePoints(entry.Value())
		if err != nil {
			s.logger.Warn("ignoring undecodable point document",
				"key", s.key,
				"revision", entry.Revision(),
				"error", err,
			)

			return
		}
		s.logger.Debug("point key updated", "key", s.key, "revision", entry.Revision(), "points", len(points))
		s.store(points, entry.Revision(), true)
	}

	notify(s.changes)
}

func (s *KV) store(points []types.Point, revision uint64, watched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if revision < s.revision {
		return
	}
	s.points = points
	s.revision = revision
	if watched {
		s.cached = true
	}
}

func (s *KV) markEmptyIfUnseen() {
	s.mu.Lock()
	if s.cached || s.revision > 0 {
		s.cached = true
		s.mu.Unlock()

		return
	}
	s.points = []types.Point{}
	s.cached = true
	s.mu.Unlock()

	notify(s.changes)
}

func (s *KV) lastKnown() ([]types.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.revision == 0 {
		return nil, false
	}

	return clonePoints(s.points), true
}
