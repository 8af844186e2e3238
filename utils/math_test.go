package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, Min(1, 2))
	assert.Equal(1, Min(2, 1))
	assert.Equal(2, Max(1, 2))
	assert.Equal(2, Max(2, 1))
}

func TestAbs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(3, Abs(-3))
	assert.Equal(3, Abs(3))
	assert.InDelta(2.5, Abs(-2.5), 1e-9)
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, Clamp(-1.0, 0.0, 1.0))
	assert.Equal(1.0, Clamp(2.0, 0.0, 1.0))
	assert.Equal(0.5, Clamp(0.5, 0.0, 1.0))
}
