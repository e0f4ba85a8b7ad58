package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-quadtree/pkg/terminal"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML config file (empty = use defaults)")
	logPath := flag.String("log", "", "Log file (empty = no logging, the terminal is busy drawing)")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	p, err := cfg.Params()
	if err != nil {
		log.Fatalf("invalid parameters: %v", err)
	}
	sim, err := flock.New(p)
	if err != nil {
		log.Fatalf("failed to create flock: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := terminal.NewApp(screen, sim, cfg.Weights(), cfg.TuningStep, cfg.Logger(logOut))
	app.SetOverlay(cfg.DisplayQuadtree)
	tick := time.Second / time.Duration(cfg.TicksPerSecond)
	if err := app.Run(ctx, tick); err != nil && ctx.Err() == nil {
		screen.Fini()
		log.Fatal(err)
	}
}
