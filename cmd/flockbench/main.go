// Command flockbench runs a flock headless for a fixed number of frames and
// reports per-frame statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML config file (empty = use defaults)")
	frames := flag.Int("frames", 1000, "Number of frames to simulate")
	every := flag.Int("log-every", 100, "Log statistics every N frames (0 = only at the end)")
	outputDir := flag.String("out", "", "Output directory for frames.csv and config.yaml (empty = no output)")
	flag.Parse()

	if *frames <= 0 {
		log.Fatal("--frames must be positive")
	}

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	logger := cfg.Logger(os.Stdout)

	p, err := cfg.Params()
	if err != nil {
		log.Fatalf("invalid parameters: %v", err)
	}
	sim, err := flock.New(p)
	if err != nil {
		log.Fatalf("failed to create flock: %v", err)
	}

	out, err := telemetry.NewOutput(*outputDir)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		log.Fatal(err)
	}

	w := cfg.Weights()
	logger.Infof("Running %d boids for %d frames (workers=%d, boundary=%s)", p.NumBoids, *frames, p.Workers, p.Boundary)

	var total time.Duration
	var last telemetry.FrameStats
	for i := 0; i < *frames; i++ {
		start := time.Now()
		sim.Update(w)
		elapsed := time.Since(start)
		total += elapsed

		last = telemetry.Collect(sim, elapsed)
		if err := out.WriteFrame(last); err != nil {
			log.Fatal(err)
		}
		if *every > 0 && (i+1)%*every == 0 {
			logger.Infof("📊 %s", last)
		}
	}

	perFrame := total / time.Duration(*frames)
	logger.Infof("Done: %s | avg update %s (%.0f frames/sec)", last, perFrame, float64(time.Second)/float64(perFrame))
	if dir := out.Dir(); dir != "" {
		fmt.Printf("Results written to %s\n", dir)
	}
}
