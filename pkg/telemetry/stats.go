// Package telemetry summarises the state of a flock frame by frame and writes
// the summaries out as CSV.
package telemetry

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/geometry"
)

// FrameStats holds the statistics of one frame.
type FrameStats struct {
	Frame uint64 `csv:"frame"`
	Boids int    `csv:"boids"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Polarization is the length of the mean heading, 1 when every boid
	// flies the same way and close to 0 for random headings.
	Polarization float64 `csv:"polarization"`

	NeighborsMean float64 `csv:"neighbors_mean"`
	NeighborsMax  int     `csv:"neighbors_max"`
	Isolated      int     `csv:"isolated"`

	TreeNodes  int `csv:"tree_nodes"`
	TreeLeaves int `csv:"tree_leaves"`
	TreeDepth  int `csv:"tree_depth"`
	Indexed    int `csv:"indexed"` // agents inside the arena at index build time

	UpdateMillis float64 `csv:"update_ms"`
}

// Summarize computes the speed, heading and neighbourhood statistics of a
// flock. following[i] is the number of neighbours agent i followed.
func Summarize(agents []flock.Agent, following []int) FrameStats {
	s := FrameStats{Boids: len(agents)}
	if len(agents) == 0 {
		return s
	}

	speeds := make([]float64, len(agents))
	var heading geometry.Vector2D
	for i, a := range agents {
		speeds[i] = a.Velocity.Len()
		heading = heading.Add(a.Velocity.Normalize())
	}
	s.SpeedMean, s.SpeedStd = stat.PopMeanStdDev(speeds, nil)
	sort.Float64s(speeds)
	s.SpeedP10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	s.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	s.SpeedP90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	s.Polarization = heading.Len() / float64(len(agents))

	if len(following) > 0 {
		counts := make([]float64, len(following))
		for i, n := range following {
			counts[i] = float64(n)
			if n == 0 {
				s.Isolated++
			}
		}
		s.NeighborsMean = stat.Mean(counts, nil)
		s.NeighborsMax = int(floats.Max(counts))
	}
	return s
}

// Collect summarises the current state of sim. elapsed is the time the last
// Update took.
func Collect(sim *flock.Simulation, elapsed time.Duration) FrameStats {
	s := Summarize(sim.Agents(), sim.Following())
	s.Frame = sim.FrameNumber()
	tree := sim.IndexStats()
	s.TreeNodes = tree.Nodes
	s.TreeLeaves = tree.Leaves
	s.TreeDepth = tree.MaxDepth
	s.Indexed = tree.Items
	s.UpdateMillis = float64(elapsed.Microseconds()) / 1000
	return s
}

func (s FrameStats) String() string {
	return fmt.Sprintf("frame=%d boids=%d speed=%.2f±%.2f polarization=%.2f neighbors=%.1f isolated=%d tree=%d/%d depth=%d update=%.2fms",
		s.Frame, s.Boids, s.SpeedMean, s.SpeedStd, s.Polarization, s.NeighborsMean, s.Isolated,
		s.TreeLeaves, s.TreeNodes, s.TreeDepth, s.UpdateMillis)
}
