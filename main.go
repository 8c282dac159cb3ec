package main

import (
	"os"

	"github.com/df07/go-tiled-raytracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("raytracer")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// The default version flag is "version, v", which clashes with -v below
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-tiled-raytracer"
	app.Usage = "render scenes with a tiled progressive ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene to a PNG file",
			Description: `
Render the scene progressively: the first pass takes one sample per pixel and the
remaining samples are spread over the following passes. Tiles are rendered in a
spiral starting from the focus pixel (the image center by default).

Statistics for the launch are printed when the render finishes.`,
			Flags:  append(sceneFlags(), renderFlags()...),
			Action: renderScene,
		},
		{
			Name:  "trace",
			Usage: "trace a single pixel sample and print every ray of its path",
			Flags: append(sceneFlags(), append(renderFlags(),
				cli.IntFlag{
					Name:  "x",
					Usage: "pixel column",
				},
				cli.IntFlag{
					Name:  "y",
					Usage: "pixel row",
				},
				cli.IntFlag{
					Name:  "sample",
					Usage: "sample index within the pixel",
				},
			)...),
			Action: tracePixel,
		},
		{
			Name:   "bvh",
			Usage:  "build the scene BVH with every split method and compare the trees",
			Flags:  sceneFlags(),
			Action: compareBVH,
		},
	}
	return app
}

func sceneFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene, s",
			Value: "cornell",
			Usage: "built-in scene: sphere, spotlight, cornell or empty",
		},
		cli.IntFlag{
			Name:  "width",
			Value: 400,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 400,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "max-prims",
			Value: 4,
			Usage: "largest BVH leaf",
		},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "integrator, i",
			Value: "path",
			Usage: "whitted, path, normals or bvh",
		},
		cli.StringFlag{
			Name:  "sampler",
			Value: "stratified",
			Usage: "uniform or stratified",
		},
		cli.StringFlag{
			Name:  "split",
			Value: "sah",
			Usage: "BVH split method: sah, middle or equal",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 64,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "passes",
			Value: 4,
			Usage: "progressive passes",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 8,
			Usage: "maximum path depth",
		},
		cli.IntFlag{
			Name:  "rr-bounces",
			Value: 3,
			Usage: "bounces before russian roulette may end a path",
		},
		cli.BoolFlag{
			Name:  "no-rr",
			Usage: "disable russian roulette",
		},
		cli.Float64Flag{
			Name:  "clamp",
			Usage: "largest indirect contribution component, 0 to disable",
		},
		cli.IntFlag{
			Name:  "tile",
			Value: 32,
			Usage: "tile size in pixels",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Usage: "worker goroutines, 0 for one per logical CPU",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "sampler seed",
		},
		cli.BoolFlag{
			Name:  "interactive",
			Usage: "single low resolution pass",
		},
		cli.IntFlag{
			Name:  "downsample",
			Value: 4,
			Usage: "block size of an interactive pass",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "image filename, defaults to output/<scene>/render_<timestamp>.png",
		},
	}
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
