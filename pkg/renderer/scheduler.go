package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-tiled-raytracer/pkg/integrator"
	"github.com/df07/go-tiled-raytracer/pkg/log"
	"github.com/df07/go-tiled-raytracer/pkg/sampler"
	"github.com/df07/go-tiled-raytracer/pkg/scene"
)

var logger = log.New("renderer")

var errNilScene = errors.New("scene is nil")

// TileEvent reports a tile state change to the launch callback
type TileEvent struct {
	Generation uint64
	Pass       int
	Tile       Tile // Copy taken at the time of the change
}

// LaunchOptions configures observation of a launch
type LaunchOptions struct {
	// OnTile is called for every tile state change. Calls come from worker goroutines
	// but never overlap.
	OnTile func(TileEvent)

	// Integrator replaces the one named by Settings.Integrator when set
	Integrator integrator.Integrator
}

// Scheduler renders into one Film. Each Launch starts a new render generation;
// starting one supersedes the previous launch, which stops between pixels.
type Scheduler struct {
	film       *Film
	generation atomic.Uint64

	mu      sync.Mutex
	current *Job
}

// NewScheduler creates a scheduler with an empty film of the given size
func NewScheduler(width, height int) *Scheduler {
	return &Scheduler{film: NewFilm(width, height)}
}

// Film returns the shared film; read it through its accessors while a job runs
func (s *Scheduler) Film() *Film {
	return s.film
}

// Generation returns the current render generation
func (s *Scheduler) Generation() uint64 {
	return s.generation.Load()
}

// Launch starts rendering sc with the given settings. Any running job is cancelled and
// waited for before the film is reset (non-accumulating) or added to (accumulating).
func (s *Scheduler) Launch(ctx context.Context, sc *scene.Scene, settings Settings, opts LaunchOptions) (*Job, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, errNilScene
	}
	if settings.Width != s.film.Width() || settings.Height != s.film.Height() {
		return nil, fmt.Errorf("%w: %dx%d does not match the %dx%d film",
			ErrInvalidSettings, settings.Width, settings.Height, s.film.Width(), s.film.Height())
	}
	if sc.Camera.Width() != settings.Width || sc.Camera.Height() != settings.Height {
		return nil, fmt.Errorf("%w: camera is %dx%d, settings are %dx%d",
			ErrInvalidSettings, sc.Camera.Width(), sc.Camera.Height(), settings.Width, settings.Height)
	}

	integ := opts.Integrator
	if integ == nil {
		var err error
		integ, err = integrator.New(settings.Integrator, settings.IntegratorConfig())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}
	smp, err := sampler.New(settings.Sampler, settings.SamplesPerPixel, settings.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	generation := s.generation.Add(1)
	if prev := s.current; prev != nil {
		prev.cancel()
		// Completion barrier: no stale worker may write after this point
		prev.wg.Wait()
	}
	if !settings.Accumulate || settings.Interactive {
		s.film.Reset(generation)
	}

	job := newJob(ctx, s, generation, sc, integ, smp, settings, opts)
	s.current = job
	job.wg.Add(1)
	go job.run()
	return job, nil
}

// Cancel stops the current job, if any, without starting a new one
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation.Add(1)
	if s.current != nil {
		s.current.cancel()
	}
}

// Wait blocks until the current job finishes and returns its statistics
func (s *Scheduler) Wait() RenderStats {
	s.mu.Lock()
	job := s.current
	s.mu.Unlock()
	if job == nil {
		return RenderStats{}
	}
	return job.Wait()
}

// Job is one launch of the scheduler
type Job struct {
	generation uint64
	sched      *Scheduler
	film       *Film
	scene      *scene.Scene
	integrator integrator.Integrator
	sampler    sampler.Sampler
	settings   Settings
	opts       LaunchOptions
	grid       *TileGrid

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu        sync.Mutex
	eventMu   sync.Mutex
	pass      int
	stats     RenderStats
	start     time.Time
	exhausted sync.Once
}

func newJob(ctx context.Context, s *Scheduler, generation uint64, sc *scene.Scene, integ integrator.Integrator, smp sampler.Sampler, settings Settings, opts LaunchOptions) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	grid := NewTileGrid(settings.Width, settings.Height, settings.TileSize)
	return &Job{
		generation: generation,
		sched:      s,
		film:       s.film,
		scene:      sc,
		integrator: integ,
		sampler:    smp,
		settings:   settings,
		opts:       opts,
		grid:       grid,
		ctx:        jobCtx,
		cancel:     cancel,
		done:       make(chan struct{}),
		stats: RenderStats{
			Generation: generation,
			Workers:    workerCount(settings.NumWorkers, len(grid.Tiles)),
		},
	}
}

// Generation returns the render generation the job writes with
func (j *Job) Generation() uint64 {
	return j.generation
}

// Cancel stops the job between pixels; partial work is kept only when accumulating
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed when the job has stopped and all workers have exited
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes. Cancellation is not an error; it shows in RenderStats.Cancelled.
func (j *Job) Wait() RenderStats {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	stats := j.stats
	stats.TileTimes = append([]time.Duration(nil), j.stats.TileTimes...)
	return stats
}

// Tiles returns a snapshot of the tile grid with current states
func (j *Job) Tiles() []Tile {
	j.mu.Lock()
	defer j.mu.Unlock()
	tiles := make([]Tile, len(j.grid.Tiles))
	for i, t := range j.grid.Tiles {
		tiles[i] = *t
	}
	return tiles
}

// Progress returns a snapshot of how far the job has come
func (j *Job) Progress() Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := Progress{
		Pass:       j.pass,
		Passes:     j.settings.passes(),
		TilesDone:  j.stats.TilesDone,
		TotalTiles: len(j.grid.Tiles) * j.settings.passes(),
		Rays:       j.stats.TotalRays,
		Elapsed:    j.stats.Elapsed,
	}
	if !j.start.IsZero() && p.Elapsed == 0 {
		p.Elapsed = time.Since(j.start)
	}
	if p.TilesDone > 0 && p.TilesDone < p.TotalTiles {
		perTile := p.Elapsed / time.Duration(p.TilesDone)
		p.Remaining = perTile * time.Duration(p.TotalTiles-p.TilesDone)
	}
	return p
}

// stale reports whether a newer generation exists or the job was cancelled
func (j *Job) stale() bool {
	return j.ctx.Err() != nil || j.sched.generation.Load() != j.generation
}

func (j *Job) run() {
	defer j.wg.Done()
	defer close(j.done)
	defer j.cancel()

	j.mu.Lock()
	j.start = time.Now()
	j.mu.Unlock()

	workers := make([]*worker, j.stats.Workers)
	for i := range workers {
		workers[i] = &worker{
			ID:       i,
			job:      j,
			renderer: newTileRenderer(j.scene, j.integrator, j.sampler.Clone(), j.film, j.settings),
		}
	}

	logger.Infof("Generation %d: rendering %dx%d with %s, %d tiles, %d workers",
		j.generation, j.settings.Width, j.settings.Height, j.integrator.Type(), len(j.grid.Tiles), len(workers))

	order := j.grid.SpiralOrder(j.settings.focus())
	for pass := 1; pass <= j.settings.passes(); pass++ {
		if j.stale() {
			break
		}
		samples := j.settings.samplesForPass(pass)
		if pass > 1 {
			samples -= j.settings.samplesForPass(pass - 1)
		}
		j.beginPass(pass)

		queue := make(chan *Tile, len(order))
		for _, t := range order {
			queue <- t
		}
		close(queue)

		var wg sync.WaitGroup
		for _, w := range workers {
			wg.Add(1)
			go func(w *worker) {
				defer wg.Done()
				w.run(queue, pass, samples)
			}(w)
		}
		wg.Wait()

		for _, w := range workers {
			if w.renderer.sampler.Exhausted() {
				j.exhausted.Do(func() {
					logger.Warningf("Generation %d: sampler ran past %d dimensions, extra draws returned 0.5",
						j.generation, sampler.MaxDimensions)
				})
			}
		}
	}

	j.mu.Lock()
	j.stats.Elapsed = time.Since(j.start)
	j.stats.Cancelled = j.stale() && j.stats.TilesDone < len(j.grid.Tiles)*j.settings.passes()
	stats := j.stats
	j.mu.Unlock()

	if stats.Cancelled {
		logger.Debugf("Generation %d cancelled after %d tiles", j.generation, stats.TilesDone)
		return
	}
	logger.Infof("Generation %d finished in %v: %d samples, %.0f rays/s",
		j.generation, stats.Elapsed, stats.TotalSamples, stats.RaysPerSecond())
}

// beginPass marks every tile pending for the next pass
func (j *Job) beginPass(pass int) {
	j.mu.Lock()
	j.pass = pass
	j.stats.Passes = pass
	for _, t := range j.grid.Tiles {
		t.State = TilePending
	}
	j.mu.Unlock()
}

func (j *Job) setState(tile *Tile, state TileState, pass int) {
	j.mu.Lock()
	tile.State = state
	snapshot := *tile
	if state == TileCancelled {
		j.stats.TilesCancelled++
	}
	j.mu.Unlock()
	j.emit(snapshot, pass)
}

// finishTile records a rendered tile and publishes its final state
func (j *Job) finishTile(tile *Tile, state TileState, pass int, res tileResult, elapsed time.Duration) {
	j.mu.Lock()
	tile.State = state
	snapshot := *tile
	j.stats.TotalPixels += res.pixels
	j.stats.TotalSamples += res.samples
	j.stats.TotalRays += res.rays
	j.stats.TileTimes = append(j.stats.TileTimes, elapsed)
	if state == TileDone {
		j.stats.TilesDone++
	} else {
		j.stats.TilesCancelled++
	}
	j.mu.Unlock()
	j.emit(snapshot, pass)
}

func (j *Job) emit(tile Tile, pass int) {
	if j.opts.OnTile == nil {
		return
	}
	j.eventMu.Lock()
	defer j.eventMu.Unlock()
	j.opts.OnTile(TileEvent{Generation: j.generation, Pass: pass, Tile: tile})
}
