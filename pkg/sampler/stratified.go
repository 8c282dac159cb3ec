package sampler

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/df07/go-tiled-raytracer/pkg/core"
)

// Stratified jitters samples within a k x k grid per pixel. Every consecutive run of k*k sample
// indices (a round) places exactly one sample in each stratum of each stratified dimension; the
// stratum assignment is a shuffle keyed by (seed, pixel, round, dimension).
type Stratified struct {
	k    int
	seed uint64

	// Per pixel sample
	pixel       image.Point
	round       int
	strataIndex int
	dimension   int
	jitter      *rand.PCG
	jitterRng   *rand.Rand
	exhausted   bool

	// Shuffled strata for the current pixel and round, indexed by dimension
	cacheValid bool
	cachePixel image.Point
	cacheRound int
	perms      [][]int
	permPCG    *rand.PCG
	permRng    *rand.Rand
}

// NewStratified creates a stratified sampler; samplesPerPixel is rounded up to a square
func NewStratified(samplesPerPixel int, seed uint64) *Stratified {
	k := int(math.Ceil(math.Sqrt(float64(samplesPerPixel))))
	if k < 1 {
		k = 1
	}
	jitter := rand.NewPCG(seed, 1)
	permPCG := rand.NewPCG(seed, 2)
	return &Stratified{
		k:         k,
		seed:      seed,
		jitter:    jitter,
		jitterRng: rand.New(jitter),
		perms:     make([][]int, MaxStratifiedDimensions),
		permPCG:   permPCG,
		permRng:   rand.New(permPCG),
	}
}

// StrataPerAxis returns k, the grid resolution of 2D draws
func (s *Stratified) StrataPerAxis() int {
	return s.k
}

func (s *Stratified) StartPixelSample(pixel image.Point, sampleIndex int) {
	n := s.k * s.k
	s.pixel = pixel
	s.round = sampleIndex / n
	s.strataIndex = sampleIndex % n
	s.dimension = 0

	x, y := pixelKey(pixel)
	s.jitter.Seed(hash(s.seed, x, y, uint64(sampleIndex)), s.seed^0x5851f42d4c957f2d)

	if !s.cacheValid || s.cachePixel != pixel || s.cacheRound != s.round {
		for i := range s.perms {
			s.perms[i] = s.perms[i][:0]
		}
		s.cachePixel = pixel
		s.cacheRound = s.round
		s.cacheValid = true
	}
}

func (s *Stratified) Get1D() float64 {
	d := s.dimension
	if !s.consume(1) {
		return exhaustedValue
	}
	j := s.nextJitter()
	if d >= MaxStratifiedDimensions {
		return j
	}
	n := s.k * s.k
	stratum := s.permutation(d)[s.strataIndex]
	return min((float64(stratum)+j)/float64(n), core.OneMinusEpsilon)
}

func (s *Stratified) Get2D() core.Vec2 {
	d := s.dimension
	if !s.consume(2) {
		return core.NewVec2(exhaustedValue, exhaustedValue)
	}
	jx := s.nextJitter()
	jy := s.nextJitter()
	if d >= MaxStratifiedDimensions {
		return core.NewVec2(jx, jy)
	}
	cell := s.permutation(d)[s.strataIndex]
	cx, cy := cell%s.k, cell/s.k
	return core.NewVec2(
		min((float64(cx)+jx)/float64(s.k), core.OneMinusEpsilon),
		min((float64(cy)+jy)/float64(s.k), core.OneMinusEpsilon),
	)
}

func (s *Stratified) SamplesPerPixel() int {
	return s.k * s.k
}

func (s *Stratified) Exhausted() bool {
	return s.exhausted
}

func (s *Stratified) Clone() Sampler {
	return NewStratified(s.k*s.k, s.seed)
}

func (s *Stratified) consume(n int) bool {
	if s.dimension+n > MaxDimensions {
		s.exhausted = true
		return false
	}
	s.dimension += n
	return true
}

func (s *Stratified) nextJitter() float64 {
	return min(s.jitterRng.Float64(), core.OneMinusEpsilon)
}

// permutation returns the stratum order of dimension d for the current pixel and round
func (s *Stratified) permutation(d int) []int {
	if perm := s.perms[d]; len(perm) > 0 {
		return perm
	}
	n := s.k * s.k
	perm := s.perms[d][:0]
	for i := 0; i < n; i++ {
		perm = append(perm, i)
	}
	x, y := pixelKey(s.pixel)
	s.permPCG.Seed(hash(s.seed, x, y, uint64(s.round), uint64(d)), s.seed)
	s.permRng.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	s.perms[d] = perm
	return perm
}
