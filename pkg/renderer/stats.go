package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about one launch
type RenderStats struct {
	Generation     uint64
	Workers        int
	Passes         int // Passes started
	TotalPixels    int // Pixels written, counting every pass
	TotalSamples   int // Camera samples traced
	TotalRays      int // Camera, shadow and bounce rays
	TilesDone      int
	TilesCancelled int
	TileTimes      []time.Duration // Render time of every tile that started rendering
	Elapsed        time.Duration
	Cancelled      bool // The launch was superseded or cancelled before finishing
}

// RaysPerSecond returns the ray throughput over the elapsed time
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalRays) / s.Elapsed.Seconds()
}

// TileTimeStats returns the mean and standard deviation of tile render times
func (s RenderStats) TileTimeStats() (mean, stddev time.Duration) {
	if len(s.TileTimes) == 0 {
		return 0, 0
	}
	secs := make([]float64, len(s.TileTimes))
	for i, d := range s.TileTimes {
		secs[i] = d.Seconds()
	}
	if len(secs) == 1 {
		return s.TileTimes[0], 0
	}
	m, sd := stat.MeanStdDev(secs, nil)
	return seconds(m), seconds(sd)
}

// Progress is a snapshot of a running launch
type Progress struct {
	Pass, Passes int
	TilesDone    int // Tiles completed over all passes
	TotalTiles   int // Tiles per pass times passes
	Rays         int
	Elapsed      time.Duration
	Remaining    time.Duration // Linear estimate from the completed fraction, 0 until a tile completes
}

// Fraction returns the completed share of all tiles
func (p Progress) Fraction() float64 {
	if p.TotalTiles == 0 {
		return 0
	}
	return float64(p.TilesDone) / float64(p.TotalTiles)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
