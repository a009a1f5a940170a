package port_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveWidth(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	_, err := port.New(0.001, "o1", 0, idx, units.Identity, port.Options{})
	assert.Error(t, err)
}

func TestHashStableAcrossCollectionPosition(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	p1, err := port.New(0.001, "o1", 500, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)
	p2, err := port.New(0.001, "o2", 500, idx, units.NewTrans(0, false, 100, 0), port.Options{})
	require.NoError(t, err)

	c1 := port.NewCollection()
	require.NoError(t, c1.Add(p1))
	require.NoError(t, c1.Add(p2))

	c2 := port.NewCollection()
	require.NoError(t, c2.Add(p2))
	require.NoError(t, c2.Add(p1))

	got1, _ := c1.Get("o1")
	got2, _ := c2.Get("o1")
	assert.Equal(t, got1.Hash(), got2.Hash())
}

func TestCollectionRejectsDuplicateName(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	p1, _ := port.New(0.001, "o1", 500, idx, units.Identity, port.Options{})
	p2, _ := port.New(0.001, "o1", 500, idx, units.NewTrans(0, false, 10, 0), port.Options{})

	c := port.NewCollection()
	require.NoError(t, c.Add(p1))
	assert.Error(t, c.Add(p2))
}

func TestEqualPortsHashEqual(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	trans := units.NewTrans(1, true, 10, 20)
	p1, _ := port.New(0.001, "o1", 500, idx, trans, port.Options{})
	p2, _ := port.New(0.001, "o1", 500, idx, trans, port.Options{})
	assert.True(t, p1.Equal(p2))
	assert.Equal(t, p1.Hash(), p2.Hash())
}

func TestDefaultPortType(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	p, err := port.New(0.001, "o1", 500, idx, units.Identity, port.Options{})
	require.NoError(t, err)
	assert.Equal(t, port.DefaultPortType, p.PortType())
}

func TestRenameCollisionRejected(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	p1, _ := port.New(0.001, "o1", 500, idx, units.Identity, port.Options{})
	p2, _ := port.New(0.001, "o2", 500, idx, units.Identity, port.Options{})
	c := port.NewCollection()
	require.NoError(t, c.Add(p1))
	require.NoError(t, c.Add(p2))
	assert.Error(t, c.Rename(0, "o2"))
	assert.NoError(t, c.Rename(0, "o3"))
	_, ok := c.Get("o3")
	assert.True(t, ok)
}
