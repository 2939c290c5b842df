package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/westwooddairy/storefront-backend/internal/carousel"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

const frameInterval = 16 * time.Millisecond

// tickScheduler drives frames off real time, one AfterFunc per frame.
type tickScheduler struct{}

func (tickScheduler) Schedule(frame func()) func() {
	timer := time.AfterFunc(frameInterval, frame)
	return func() { timer.Stop() }
}

type stdoutBackground struct{}

func (stdoutBackground) SetBackground(css string) {
	fmt.Printf("background: %s\n", css)
}

type stdoutOverlay struct{}

func (stdoutOverlay) SetTransform(css string) {
	fmt.Printf("overlay:    %s\n", css)
}

func main() {
	var (
		wheels = flag.Int("wheels", 6, "number of wheel ticks to simulate")
		bend   = flag.Float64("bend", 1, "curvature of the tile strip")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "carousel-demo"})
	ctx := context.Background()

	ctrl, err := carousel.New(carousel.Options{
		Bend:       *bend,
		Scheduler:  tickScheduler{},
		Background: stdoutBackground{},
		Overlay:    stdoutOverlay{},
	})
	if err != nil {
		logg.Error(ctx, "failed to start carousel", err)
		os.Exit(1)
	}
	defer func() {
		if err := ctrl.Destroy(); err != nil {
			logg.Error(ctx, "error tearing down carousel", err)
		}
	}()

	logg.Info(ctx, "scrolling through the placeholder gallery")
	for i := 0; i < *wheels; i++ {
		ctrl.Wheel(1)
		time.Sleep(80 * time.Millisecond)
		printCenter(ctrl.Snapshot())
	}

	logg.Info(ctx, "dragging back one tile")
	width := ctrl.Snapshot().TileWidth
	ctrl.PointerDown(0)
	for i := 1; i <= 10; i++ {
		ctrl.PointerMove(float64(i) / 10 * width / 0.05)
		time.Sleep(frameInterval)
	}
	ctrl.PointerUp()
	printCenter(ctrl.Snapshot())

	// Let the debounced snap fire and the strip settle.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if state := ctrl.Snapshot(); !state.Running {
			printCenter(state)
			logg.Info(ctx, "carousel settled")
			return
		}
		time.Sleep(frameInterval)
	}
	logg.Warn(ctx, "carousel did not settle before the deadline")
}

func printCenter(state carousel.State) {
	for _, tile := range state.Tiles {
		if tile.Index == state.CenterIndex {
			fmt.Printf("center:     %q (scroll %.3f -> %.3f)\n", tile.Caption, state.Current, state.Target)
			return
		}
	}
}
