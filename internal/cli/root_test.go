package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCmd("1.2.3", "abc123", "2026-01-01")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestNewRootCmdVersionFormatting(t *testing.T) {
	root := NewRootCmd("1.2.3", "abc123", "2026-01-01")

	require.Equal(t, "1.2.3 (Built on 2026-01-01 from Git SHA abc123)", root.Version)
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)

	require.Contains(t, out, "fadeOutDuration: 300ms")
	require.Contains(t, out, "tickInterval: 16ms")
	require.Contains(t, out, "fitPaddingPx: 50")
	require.Contains(t, out, "initialTheme: normal")
}

func TestConfigCmd_WithFile(t *testing.T) {
	out, err := execute(t, "config", "--config", filepath.Join("testdata", "engine.yaml"))
	require.NoError(t, err)

	require.Contains(t, out, "fadeOutDuration: 500ms")
	require.Contains(t, out, "initialTheme: dark")
}

func TestReplayCmd(t *testing.T) {
	out, err := execute(t, "replay", filepath.Join("testdata", "switch.yaml"), "--no-color", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	require.Contains(t, lines[0], "early input")
	require.Contains(t, lines[0], "phase=WaitingSurface")
	require.Contains(t, lines[1], "phase=Idle")
	require.Contains(t, lines[1], "markers=5")
	require.Contains(t, lines[2], "phase=Transitioning")
	require.Contains(t, lines[2], "markers=6")
	require.Contains(t, lines[2], "pending=3")
	require.Contains(t, lines[3], "phase=Idle")
	require.Contains(t, lines[3], "markers=3")

	require.Contains(t, out, "final phase=Idle theme=dark markers=3 diffs=2 (animated=1 instant=1) skipped=0 surfaceErrors=0")
	require.Contains(t, out, "markers: p4 p5 p6")
	require.Contains(t, out, "activated: p6")
	require.Contains(t, out, "fitBounds: south=52.5000 west=13.3800 north=52.5200 east=13.4000 padding=50")
	require.Contains(t, out, "clusters at zoom 3: 1")
	require.Contains(t, out, "members=p4,p5")
}

func TestReplayCmd_GeoJSONAndMetrics(t *testing.T) {
	out, err := execute(t, "replay", filepath.Join("testdata", "switch.yaml"),
		"--no-color", "--log-level", "error", "--geojson", "--metrics")
	require.NoError(t, err)

	require.Contains(t, out, `"FeatureCollection"`)
	require.Contains(t, out, `pinmark_reconcile_diffs_total{mode="animated"} 1`)
	require.Contains(t, out, `pinmark_registry_markers 3`)
	require.Contains(t, out, "# TYPE pinmark_reconcile_diffs_total counter")
	require.Contains(t, out, "# TYPE pinmark_registry_markers gauge")
}

func TestReplayCmd_Errors(t *testing.T) {
	t.Run("missing scenario", func(t *testing.T) {
		_, err := execute(t, "replay", filepath.Join("testdata", "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("no args", func(t *testing.T) {
		_, err := execute(t, "replay")
		require.Error(t, err)
	})
}
