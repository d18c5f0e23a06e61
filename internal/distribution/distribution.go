// Package distribution samples integer coordinates for one image axis.
package distribution

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMaxRejections bounds the redraw loop of a normal Distribution.
const DefaultMaxRejections = 1_000_000

// ErrTooManyRejections returned when a normal Distribution could not produce an
// in-range value within its rejection budget.
var ErrTooManyRejections = errors.New("too many rejected samples")

// Rand is a source of randomness used by a Distribution. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	NormFloat64() float64
}

// Distribution of integer points from Min to Max. Without a standard deviation
// it is uniform over [Min, Max), otherwise normal around Mean with draws outside
// [Min, Max] rejected and redrawn.
type Distribution struct {
	mean          float64
	min           int
	max           int
	std           float64
	normal        bool
	maxRejections int
}

// Option configures Distribution.
type Option func(d *Distribution)

// WithStd turns Distribution into a normal one with the given standard deviation.
func WithStd(std float64) Option {
	return func(d *Distribution) {
		d.std = std
		d.normal = true
	}
}

// WithMaxRejections sets how many out of range normal draws are tolerated in a
// single Sample call. Zero or negative means DefaultMaxRejections.
func WithMaxRejections(n int) Option {
	return func(d *Distribution) {
		d.maxRejections = n
	}
}

// New creates Distribution. It returns an error if min > max, mean is outside
// [min, max] or standard deviation is negative or not finite.
func New(mean float64, min, max int, opts ...Option) (*Distribution, error) {
	d := &Distribution{
		mean: mean,
		min:  min,
		max:  max,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxRejections <= 0 {
		d.maxRejections = DefaultMaxRejections
	}
	if min > max {
		return nil, fmt.Errorf("min %d is greater than max %d", min, max)
	}
	if math.IsNaN(mean) || mean < float64(min) || mean > float64(max) {
		return nil, fmt.Errorf("mean %v is out of range [%d, %d]", mean, min, max)
	}
	if d.normal && (d.std < 0 || math.IsNaN(d.std) || math.IsInf(d.std, 0)) {
		return nil, fmt.Errorf("invalid standard deviation %v", d.std)
	}
	return d, nil
}

// FromDimension returns a uniform Distribution over [0, dimension) with mean
// dimension/2.
func FromDimension(dimension int, opts ...Option) (*Distribution, error) {
	return New(float64(dimension/2), 0, dimension, opts...)
}

func (d *Distribution) Mean() float64 { return d.mean }
func (d *Distribution) Min() int      { return d.min }
func (d *Distribution) Max() int      { return d.max }

// Std returns standard deviation and whether Distribution is normal.
func (d *Distribution) Std() (float64, bool) { return d.std, d.normal }

// IsUniform reports whether Distribution has no standard deviation.
func (d *Distribution) IsUniform() bool { return !d.normal }

// Sample returns a random point p, Min <= p <= Max. Uniform samples never
// return Max unless Min == Max.
func (d *Distribution) Sample(rng Rand) (int, error) {
	if !d.normal {
		if d.max == d.min {
			return d.min, nil
		}
		return d.min + rng.IntN(d.max-d.min), nil
	}
	for i := 0; i < d.maxRejections; i++ {
		v := math.Round(d.mean + d.std*rng.NormFloat64())
		if v < float64(d.min) || v > float64(d.max) {
			continue
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: %d draws outside [%d, %d] (mean %v, std %v)",
		ErrTooManyRejections, d.maxRejections, d.min, d.max, d.mean, d.std)
}

func (d *Distribution) String() string {
	if d.normal {
		return fmt.Sprintf("normal(mean=%v, std=%v, [%d, %d])", d.mean, d.std, d.min, d.max)
	}
	return fmt.Sprintf("uniform([%d, %d))", d.min, d.max)
}
