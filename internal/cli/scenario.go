package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/pinmark"
)

// Scenario is a scripted sequence of engine inputs replayed against an
// in-memory surface.
type Scenario struct {
	Surface SurfaceSpec `yaml:"surface"`
	Steps   []Step      `yaml:"steps"`
}

// SurfaceSpec configures the in-memory surface of a replay.
type SurfaceSpec struct {
	// DeferReady starts the surface not ready; a "ready" step signals it.
	DeferReady bool `yaml:"deferReady"`

	// CellSizePx is the clustering grid cell (default 60).
	CellSizePx int `yaml:"cellSizePx"`
}

// Step is one scenario action. Exactly one action field must be set.
type Step struct {
	Name string `yaml:"name"`

	Points       *[]pinmark.Point `yaml:"points"`
	Advance      time.Duration    `yaml:"advance"`
	Theme        *pinmark.Theme   `yaml:"theme"`
	Ready        bool             `yaml:"ready"`
	Click        string           `yaml:"click"`
	ClusterClick *ClusterClick    `yaml:"clusterClick"`
}

// ClusterClick selects a cluster by zoom and position in the sorted group list.
type ClusterClick struct {
	Zoom  int `yaml:"zoom"`
	Index int `yaml:"index"`
}

// Kind returns the action name of the step.
func (s Step) Kind() string {
	switch {
	case s.Points != nil:
		return "points"
	case s.Advance != 0:
		return "advance"
	case s.Theme != nil:
		return "theme"
	case s.Ready:
		return "ready"
	case s.Click != "":
		return "click"
	case s.ClusterClick != nil:
		return "clusterClick"
	default:
		return ""
	}
}

// Validate checks that exactly one action is set.
func (s Step) Validate() error {
	n := 0
	for _, set := range []bool{
		s.Points != nil,
		s.Advance != 0,
		s.Theme != nil,
		s.Ready,
		s.Click != "",
		s.ClusterClick != nil,
	} {
		if set {
			n++
		}
	}

	switch {
	case n == 0:
		return errors.New("step has no action")
	case n > 1:
		return fmt.Errorf("step has %d actions, want exactly one", n)
	case s.Advance < 0:
		return fmt.Errorf("negative advance %v", s.Advance)
	}

	return nil
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}
	for i, step := range sc.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return &sc, nil
}
