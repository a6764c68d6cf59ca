package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroCurveInterpolation(t *testing.T) {
	crv, err := NewZeroCurve([]Pillar{
		{T: 1, Rate: 0.02},
		{T: 5, Rate: 0.03},
		{T: 10, Rate: 0.035},
	})
	require.NoError(t, err)

	z, err := crv.ZeroRate(3)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, z, 1e-12)

	// Flat before the first pillar.
	z, err = crv.ZeroRate(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.02, z, 1e-12)
}

func TestZeroCurveDiscountFactor(t *testing.T) {
	crv := FlatCurve(0.03, 30)

	df, err := crv.DiscountFactor(5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.03*5), df, 1e-12)

	df, err = crv.DiscountFactor(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, df)
}

func TestZeroCurveOutOfRange(t *testing.T) {
	crv := FlatCurve(0.03, 10)

	_, err := crv.DiscountFactor(11)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 11.0, oor.T)

	_, err = crv.DiscountFactor(-0.5)
	require.Error(t, err)
}

func TestZeroCurveRejectsBadPillars(t *testing.T) {
	_, err := NewZeroCurve(nil)
	require.Error(t, err)

	_, err = NewZeroCurve([]Pillar{{T: 0, Rate: 0.02}})
	require.Error(t, err)

	_, err = NewZeroCurve([]Pillar{{T: 1, Rate: 0.02}, {T: 1, Rate: 0.03}})
	require.Error(t, err)
}

func TestFlatCurveForwardRate(t *testing.T) {
	crv := FlatCurve(0.025, 30)

	fwd, err := crv.ForwardRate(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, fwd, 1e-12)

	_, err = crv.ForwardRate(2, 2)
	require.Error(t, err)
}

func TestParallelShift(t *testing.T) {
	base := FlatCurve(0.03, 30)
	up := ParallelShift(base, 10)

	df, err := up.DiscountFactor(5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.031*5), df, 1e-12)

	fwd, err := up.ForwardRate(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.031, fwd, 1e-12)

	// Errors propagate unchanged.
	_, err = up.DiscountFactor(40)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
}
