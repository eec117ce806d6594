package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	doc := []byte(`
name: demo
volume:
  path: brain.raw
  dims: [64, 64, 32]
  element: uint16
  spacing: [1, 1, 2.5]
steps:
  - op: grow
    seed: [10, 20, 5]
    precision: 15
    local: true
    replace: true
  - op: group
    steps:
      - op: selectBlock
        center: [3, 3, 3]
        radius: 2
        axes: [0, 1]
      - op: deselect
        coords: [[3, 3, 3]]
  - op: fill
    value: 0
`)

	s, err := ParseScript(doc)
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	require.NotNil(t, s.Volume)
	assert.Equal(t, "brain.raw", s.Volume.Path)
	assert.Equal(t, [3]int{64, 64, 32}, s.Volume.Dims)
	assert.Equal(t, [3]float64{1, 1, 2.5}, s.Volume.Spacing)

	require.Len(t, s.Steps, 3)
	grow := s.Steps[0]
	assert.Equal(t, OpGrow, grow.Op)
	require.NotNil(t, grow.Seed)
	assert.Equal(t, [3]int{10, 20, 5}, *grow.Seed)
	assert.Equal(t, 15.0, grow.Precision)
	assert.True(t, grow.Local)
	assert.True(t, grow.Replace)

	group := s.Steps[1]
	require.Len(t, group.Steps, 2)
	assert.Equal(t, OpSelectBlock, group.Steps[0].Op)
	assert.Equal(t, []int{0, 1}, group.Steps[0].Axes)
	assert.Equal(t, [][3]int{{3, 3, 3}}, group.Steps[1].Coords)
}

func TestParseScriptRejectsEmpty(t *testing.T) {
	_, err := ParseScript([]byte("name: empty\nsteps: []\n"))
	assert.Error(t, err)
}

func TestParseScriptRejectsMalformedYAML(t *testing.T) {
	_, err := ParseScript([]byte("steps: ["))
	assert.Error(t, err)
}
