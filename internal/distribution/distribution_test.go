package distribution

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestUniformBounds(t *testing.T) {
	d, err := New(50, 10, 90)
	require.NoError(t, err)
	require.True(t, d.IsUniform())

	rng := newRand()
	for i := 0; i < 10000; i++ {
		v, err := d.Sample(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 10)
		require.Less(t, v, 90)
	}
}

func TestUniformDegenerateRange(t *testing.T) {
	d, err := New(0, 0, 0)
	require.NoError(t, err)
	v, err := d.Sample(newRand())
	require.NoError(t, err)
	require.Equal(t, 0, v)
}

func TestNormalBounds(t *testing.T) {
	d, err := New(20, 0, 40, WithStd(10))
	require.NoError(t, err)
	require.False(t, d.IsUniform())

	rng := newRand()
	seenMax := false
	for i := 0; i < 20000; i++ {
		v, err := d.Sample(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 40)
		if v == 40 {
			seenMax = true
		}
	}
	require.True(t, seenMax, "normal mode must be able to return max")
}

func TestNormalHugeStdTerminates(t *testing.T) {
	d, err := New(5, 0, 10, WithStd(1e4))
	require.NoError(t, err)

	rng := newRand()
	for i := 0; i < 200; i++ {
		v, err := d.Sample(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 10)
	}
}

func TestNormalZeroStd(t *testing.T) {
	d, err := New(7, 0, 10, WithStd(0))
	require.NoError(t, err)
	v, err := d.Sample(newRand())
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestNormalRejectionCap(t *testing.T) {
	d, err := New(5, 0, 10, WithStd(1e12), WithMaxRejections(3))
	require.NoError(t, err)
	_, err = d.Sample(newRand())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTooManyRejections))
}

func TestFromDimension(t *testing.T) {
	d, err := FromDimension(500)
	require.NoError(t, err)
	require.True(t, d.IsUniform())
	require.Equal(t, 250.0, d.Mean())
	require.Equal(t, 0, d.Min())
	require.Equal(t, 500, d.Max())

	rng := newRand()
	var sum int
	const n = 50000
	for i := 0; i < n; i++ {
		v, err := d.Sample(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 500)
		sum += v
	}
	mean := float64(sum) / n
	require.InDelta(t, 249.5, mean, 5)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		mean float64
		min  int
		max  int
		opts []Option
	}{
		{name: "min greater than max", mean: 5, min: 10, max: 0},
		{name: "mean below min", mean: -1, min: 0, max: 10},
		{name: "mean above max", mean: 11, min: 0, max: 10},
		{name: "negative std", mean: 5, min: 0, max: 10, opts: []Option{WithStd(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mean, tt.min, tt.max, tt.opts...)
			require.Error(t, err)
		})
	}
}

func TestSampleDeterministic(t *testing.T) {
	d, err := New(30, 0, 60, WithStd(8))
	require.NoError(t, err)

	draw := func() []int {
		rng := newRand()
		out := make([]int, 100)
		for i := range out {
			out[i], err = d.Sample(rng)
			require.NoError(t, err)
		}
		return out
	}
	require.Equal(t, draw(), draw())
}
