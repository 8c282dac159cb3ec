package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-tiled-raytracer/pkg/geometry"
	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/df07/go-tiled-raytracer/pkg/renderer"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// sceneSettings reads the flags shared by every command
func sceneSettings(ctx *cli.Context) renderer.Settings {
	s := renderer.DefaultSettings()
	s.Width = ctx.Int("width")
	s.Height = ctx.Int("height")
	s.MaxPrimsInNode = ctx.Int("max-prims")
	return s
}

// settingsFromFlags builds render settings from the command flags
func settingsFromFlags(ctx *cli.Context) (renderer.Settings, error) {
	s := sceneSettings(ctx)

	var err error
	if s.Integrator, err = integrator.ParseType(ctx.String("integrator")); err != nil {
		return s, err
	}
	if s.Sampler, err = sampler.ParseType(ctx.String("sampler")); err != nil {
		return s, err
	}
	if s.Split, err = geometry.ParseSplitMethod(ctx.String("split")); err != nil {
		return s, err
	}
	s.SamplesPerPixel = ctx.Int("spp")
	s.Passes = min(ctx.Int("passes"), s.SamplesPerPixel)
	s.MaxDepth = ctx.Int("depth")
	s.RouletteMinBounces = ctx.Int("rr-bounces")
	s.DisableRoulette = ctx.Bool("no-rr")
	s.IndirectClamp = ctx.Float64("clamp")
	s.TileSize = ctx.Int("tile")
	s.NumWorkers = ctx.Int("workers")
	s.Seed = ctx.Uint64("seed")
	s.Interactive = ctx.Bool("interactive")
	s.DownsampleFactor = ctx.Int("downsample")
	return s, s.Validate()
}

// createOutputDir returns the directory renders of a scene are saved in
func createOutputDir(sceneName string) (string, error) {
	dir := filepath.Join("output", sceneName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

func loadScene(ctx *cli.Context, settings renderer.Settings) (*scene.Scene, error) {
	return scene.ByName(ctx.String("scene"), settings.Width, settings.Height, settings.SceneOptions())
}

// Render a still frame.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	settings, err := settingsFromFlags(ctx)
	if err != nil {
		return err
	}
	sc, err := loadScene(ctx, settings)
	if err != nil {
		return err
	}

	filename := ctx.String("out")
	if filename == "" {
		dir, err := createOutputDir(ctx.String("scene"))
		if err != nil {
			return err
		}
		filename = filepath.Join(dir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tilesPerPass := len(renderer.NewTileGrid(settings.Width, settings.Height, settings.TileSize).Tiles)
	done := 0
	opts := renderer.LaunchOptions{OnTile: func(e renderer.TileEvent) {
		if e.Tile.State != renderer.TileDone {
			return
		}
		done++
		if done%tilesPerPass == 0 {
			logger.Infof("Pass %d complete", e.Pass)
		}
	}}

	sched := renderer.NewScheduler(settings.Width, settings.Height)
	logger.Noticef("Rendering %s at %dx%d, %d spp", ctx.String("scene"), settings.Width, settings.Height, settings.SamplesPerPixel)
	job, err := sched.Launch(runCtx, sc, settings, opts)
	if err != nil {
		return err
	}
	stats := job.Wait()
	if stats.Cancelled {
		logger.Warningf("Render interrupted; saving the partial image")
	}

	if err := savePNG(filename, sched.Film()); err != nil {
		return err
	}
	renderer.WriteStatsTable(ctx.App.Writer, stats)
	logger.Noticef("Render saved as %s", filename)
	return nil
}

func savePNG(filename string, film *renderer.Film) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	if err := png.Encode(file, film.Image()); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}

// Trace one pixel sample.
func tracePixel(ctx *cli.Context) error {
	setupLogging(ctx)

	settings, err := settingsFromFlags(ctx)
	if err != nil {
		return err
	}
	sc, err := loadScene(ctx, settings)
	if err != nil {
		return err
	}

	x, y := ctx.Int("x"), ctx.Int("y")
	if !ctx.IsSet("x") {
		x = settings.Width / 2
	}
	if !ctx.IsSet("y") {
		y = settings.Height / 2
	}
	trace, err := renderer.TracePixel(sc, settings, x, y, ctx.Int("sample"))
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Pixel (%d, %d) sample %d: %d rays\n", x, y, trace.SampleIndex, trace.Rays)
	renderer.WriteTraceTable(ctx.App.Writer, trace)
	return nil
}

// Build the BVH with every split method.
func compareBVH(ctx *cli.Context) error {
	setupLogging(ctx)

	settings := sceneSettings(ctx)
	if err := settings.Validate(); err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Split", "Primitives", "Excluded", "Nodes", "Leaves", "Max depth", "Largest leaf", "Build time"})

	for _, split := range []geometry.SplitMethod{geometry.SplitSAH, geometry.SplitMiddle, geometry.SplitEqualCounts} {
		settings.Split = split
		sc, err := loadScene(ctx, settings)
		if err != nil {
			return err
		}
		stats := sc.BVH.Stats()
		table.Append([]string{
			string(split),
			fmt.Sprintf("%d", stats.Primitives),
			fmt.Sprintf("%d", len(sc.Excluded)),
			fmt.Sprintf("%d", stats.Nodes),
			fmt.Sprintf("%d", stats.Leaves),
			fmt.Sprintf("%d", stats.MaxDepth),
			fmt.Sprintf("%d", stats.MaxLeafSize),
			sc.BuildTime.String(),
		})
	}
	table.Render()
	return nil
}
