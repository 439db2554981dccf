package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arloliu/pinmark"
	"github.com/arloliu/pinmark/internal/clock"
	"github.com/arloliu/pinmark/internal/logging"
	"github.com/arloliu/pinmark/surface"
)

type replayOptions struct {
	geojson bool
	metrics bool
	zoom    int
}

func newReplayCmd(v *viper.Viper) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a scenario and report the rendered markers and clusters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, v, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.geojson, "geojson", false, "Print the final markers and clusters as GeoJSON")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print the collected Prometheus metrics")
	cmd.Flags().IntVar(&opts.zoom, "zoom", 3, "Zoom level used to report clusters")

	return cmd
}

func runReplay(cmd *cobra.Command, v *viper.Viper, path string, opts *replayOptions) error {
	configPath, _ := cmd.Flags().GetString(configFlagName)
	cfg, err := loadConfig(v, configPath)
	if err != nil {
		return err
	}

	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool(noColorFlagName)
	log := logging.NewZerologConsole(cmd.ErrOrStderr(), v.GetString(keyLogLevel), noColor)

	var surfOpts []surface.MemoryOption
	if sc.Surface.DeferReady {
		surfOpts = append(surfOpts, surface.WithDeferredReady())
	}
	if sc.Surface.CellSizePx > 0 {
		surfOpts = append(surfOpts, surface.WithCellSize(sc.Surface.CellSizePx))
	}
	surf := surface.NewMemory(surfOpts...)
	clk := clock.NewFake(time.Unix(0, 0).UTC())
	reg := prometheus.NewRegistry()

	var activated []string
	eng, err := pinmark.NewEngine(&cfg, surf,
		pinmark.WithLogger(log),
		pinmark.WithClock(clk),
		pinmark.WithMetrics(pinmark.NewPrometheusMetrics(reg, "")),
		pinmark.WithHooks(&pinmark.Hooks{
			OnMarkerActivated: func(_ context.Context, p pinmark.Point) error {
				activated = append(activated, p.ID)
				return nil
			},
		}),
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = eng.Stop(context.Background())
	}()

	out := cmd.OutOrStdout()
	r := &replayer{eng: eng, surf: surf, clk: clk, tick: cfg.Animation.TickInterval}
	for i, step := range sc.Steps {
		if err := r.apply(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}

		st := eng.Stats()
		label := step.Kind()
		if step.Name != "" {
			label = step.Name
		}
		fmt.Fprintf(out, "%3d %-20s phase=%-14s markers=%-4d pending=%-4d animations=%d\n",
			i+1, label, st.Phase, st.Markers, st.PendingRemovals, st.ActiveAnimations)
	}

	writeSummary(out, eng, surf, opts.zoom, activated)

	if opts.geojson {
		data, err := surf.GeoJSON(opts.zoom)
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}
	if opts.metrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	return nil
}

// replayer applies scenario steps to an engine driven by a fake clock.
type replayer struct {
	eng  *pinmark.Engine
	surf *surface.Memory
	clk  *clock.Fake
	tick time.Duration
}

func (r *replayer) apply(step Step) error {
	switch step.Kind() {
	case "points":
		r.eng.Update(*step.Points)
	case "advance":
		// tick at the configured frame rate so intermediate opacities are rendered
		for remaining := step.Advance; remaining > 0; remaining -= r.tick {
			r.eng.Tick(r.clk.Advance(min(r.tick, remaining)))
		}
	case "theme":
		r.eng.SetTheme(*step.Theme)
	case "ready":
		r.surf.MarkReady()
		r.eng.Tick(r.clk.Now())
	case "click":
		return r.surf.Click(step.Click)
	case "clusterClick":
		groups := r.surf.Clusters(step.ClusterClick.Zoom)
		if step.ClusterClick.Index < 0 || step.ClusterClick.Index >= len(groups) {
			return fmt.Errorf("cluster index %d out of range, %d clusters at zoom %d",
				step.ClusterClick.Index, len(groups), step.ClusterClick.Zoom)
		}

		return r.surf.ClickCluster(step.ClusterClick.Zoom, groups[step.ClusterClick.Index].ID)
	}

	return nil
}

func writeSummary(out io.Writer, eng *pinmark.Engine, surf *surface.Memory, zoom int, activated []string) {
	st := eng.Stats()
	fmt.Fprintf(out, "final phase=%s theme=%s markers=%d diffs=%d (animated=%d instant=%d) skipped=%d surfaceErrors=%d\n",
		st.Phase, st.Theme, st.Markers, st.Diffs, st.AnimatedDiffs, st.InstantDiffs, st.SkippedPoints, st.SurfaceErrors)
	fmt.Fprintf(out, "markers: %s\n", strings.Join(surf.MarkerIDs(), " "))
	if len(activated) > 0 {
		fmt.Fprintf(out, "activated: %s\n", strings.Join(activated, " "))
	}
	for _, fit := range surf.FitCalls() {
		b := fit.Bounds
		fmt.Fprintf(out, "fitBounds: south=%.4f west=%.4f north=%.4f east=%.4f padding=%d\n",
			b.South, b.West, b.North, b.East, fit.PaddingPx)
	}

	groups := surf.Clusters(zoom)
	fmt.Fprintf(out, "clusters at zoom %d: %d\n", zoom, len(groups))
	for _, g := range groups {
		fmt.Fprintf(out, "  [%s] %s badge=%dpx center=%.4f,%.4f members=%s\n",
			g.Badge.Label, g.Badge.Bucket, g.Badge.SizePx, g.Center.Lat, g.Center.Lng, strings.Join(g.MemberIDs, ","))
	}
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
