package cell_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockwiseRenameOrdersByBucketThenCoordinate(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "straight")
	idx := lay.Layers().Layer(1, 0)

	// Two East-facing ports (angle 0): higher y should come first.
	_, err := c.CreatePort("in1", 500, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)
	_, err = c.CreatePort("in2", 500, idx, units.NewTrans(0, false, 0, 1000), port.Options{})
	require.NoError(t, err)
	// A North-facing port.
	_, err = c.CreatePort("in3", 500, idx, units.NewTrans(1, false, 0, 0), port.Options{})
	require.NoError(t, err)

	require.NoError(t, c.AutorenamePorts(nil))

	ports := c.Ports()
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name()
	}
	// East bucket ports renamed first (higher y first), North bucket last.
	assert.Contains(t, names, "o1")
	assert.Contains(t, names, "o2")
	assert.Contains(t, names, "o3")

	byTrans := make(map[string]units.Trans)
	for _, p := range ports {
		byTrans[p.Name()] = p.Trans()
	}
	assert.Equal(t, int64(1000), byTrans["o1"].DY)
	assert.Equal(t, int64(0), byTrans["o2"].DY)
}
