package renderer

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/cpu"
)

// hardwareParallelism returns the logical CPU count
func hardwareParallelism() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// workerCount resolves the configured worker count, never more workers than tiles
func workerCount(configured, tiles int) int {
	n := configured
	if n <= 0 {
		n = hardwareParallelism()
	}
	return max(1, min(n, tiles))
}

// worker renders tiles claimed from a pass queue
type worker struct {
	ID       int
	job      *Job
	renderer *tileRenderer
}

// run drains the queue; a receive is the claim, so every tile goes to exactly one worker
func (w *worker) run(queue <-chan *Tile, pass, samples int) {
	j := w.job
	for tile := range queue {
		if j.stale() {
			j.setState(tile, TileCancelled, pass)
			continue
		}
		j.setState(tile, TileActive, pass)

		start := time.Now()
		res := w.renderer.render(tile, samples, j.stale)
		if res.completed || (j.settings.Accumulate && !j.settings.Interactive) {
			// Stale accumulating tiles still merge their finished pixels
			j.film.commit(tile.Bounds, w.renderer.buf, j.generation)
		} else {
			res.pixels, res.samples = 0, 0
		}

		state := TileDone
		if !res.completed {
			state = TileCancelled
		}
		j.finishTile(tile, state, pass, res, time.Since(start))
	}
}
