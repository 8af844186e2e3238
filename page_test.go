package rasterflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPosition_OutOfRangeFallsBackToCenter(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(PositionCenter, clampPosition(Position(-1)))
	assert.Equal(PositionCenter, clampPosition(Position(9)))
	assert.Equal(PositionBottomRight, clampPosition(PositionBottomRight))
}
