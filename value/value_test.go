package value

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	v, err := Constant{Width: 3, Const: 0.5}.Value([]float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.5, 0.5}, v)

	_, err = Constant{}.Value(nil)
	require.Error(t, err)
}

func TestCached(t *testing.T) {
	var calls int32
	fn := FunctionFunc(func(encoding []float64) ([]float64, error) {
		atomic.AddInt32(&calls, 1)
		return []float64{encoding[0] * 2}, nil
	})

	c, err := NewCached(fn, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := c.Value([]float64{1.5})
		require.NoError(t, err)
		require.Equal(t, []float64{3}, v)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// Mutating a returned slice does not affect the cache.
	v, err := c.Value([]float64{1.5})
	require.NoError(t, err)
	v[0] = 100
	v, err = c.Value([]float64{1.5})
	require.NoError(t, err)
	require.Equal(t, []float64{3}, v)

	_, err = c.Value([]float64{2})
	require.NoError(t, err)
	_, err = c.Value([]float64{3})
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))

	c.Purge()
	require.Equal(t, 0, c.Len())
}

func TestTable(t *testing.T) {
	table := NewTable(2)
	v, err := table.Value([]float64{1, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, v)

	err = table.Learn([]Example{
		{Encoding: []float64{1, 0}, Values: []float64{1, -1}},
		{Encoding: []float64{1, 0}, Values: []float64{3, 1}},
		{Encoding: []float64{0, 1}, Values: []float64{5, 5}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	v, err = table.Value([]float64{1, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 0}, v)

	err = table.Learn([]Example{{Encoding: []float64{1}, Values: []float64{1}}})
	require.Error(t, err)
}
