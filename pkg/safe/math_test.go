package safe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	assert.Equal(t, int64(5), Add(2, 3))
	assert.Panics(t, func() { Add(math.MaxInt64, 1) })
	assert.Panics(t, func() { Add(math.MinInt64, -1) })
}

func TestSub(t *testing.T) {
	assert.Equal(t, int64(-1), Sub(2, 3))
	assert.Panics(t, func() { Sub(math.MinInt64, 1) })
}

func TestMul(t *testing.T) {
	assert.Equal(t, int64(0), Mul(0, 5))
	assert.Equal(t, int64(20), Mul(4, 5))
	assert.Equal(t, int64(20), Mul(-4, -5))
	assert.Equal(t, int64(-20), Mul(-4, 5))
	assert.Panics(t, func() { Mul(math.MaxInt64, 2) })
}

func TestDiv(t *testing.T) {
	assert.Equal(t, int64(3), Div(6, 2))
	assert.Panics(t, func() { Div(1, 0) })
	assert.Panics(t, func() { Div(math.MinInt64, -1) })
}
