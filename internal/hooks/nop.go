// Package hooks provides the default engine hook set.
package hooks

import (
	"context"

	"github.com/arloliu/pinmark/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.Point) error              = (*NopHooks)(nil).OnMarkerActivated
	_ func(context.Context, types.Phase, types.Phase) error = (*NopHooks)(nil).OnPhaseChanged
	_ func(context.Context, error) error                    = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnMarkerActivated: h.OnMarkerActivated,
		OnPhaseChanged:    h.OnPhaseChanged,
		OnError:           h.OnError,
	}
}

// Merge returns custom with every nil callback replaced by a no-op.
func Merge(custom *types.Hooks) types.Hooks {
	out := NewNop()
	if custom == nil {
		return out
	}
	if custom.OnMarkerActivated != nil {
		out.OnMarkerActivated = custom.OnMarkerActivated
	}
	if custom.OnPhaseChanged != nil {
		out.OnPhaseChanged = custom.OnPhaseChanged
	}
	if custom.OnError != nil {
		out.OnError = custom.OnError
	}

	return out
}

// OnMarkerActivated is a no-op implementation.
func (h *NopHooks) OnMarkerActivated(ctx context.Context, point types.Point) error {
	return nil
}

// OnPhaseChanged is a no-op implementation.
func (h *NopHooks) OnPhaseChanged(ctx context.Context, from, to types.Phase) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
