package pcell_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kcl"
	"github.com/kfactory-go/kfactory/kvalue"
	"github.com/kfactory-go/kfactory/pcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAvoidsRebuild(t *testing.T) {
	k := kcl.New(memory.NewLayout(0.001))
	cache := pcell.NewCache(8)
	calls := 0
	factory := func(k *kcl.KCLayout, args pcell.Args) (*cell.Cell, error) {
		calls++
		return k.CreateCell(pcell.NameFor("straight", args))
	}
	straight := pcell.Cell(factory, pcell.Options{Cache: cache, ComponentType: "straight"})

	args := pcell.Args{"length": pcell.Val(kvalue.Float(10))}
	c1, err := straight(k, args)
	require.NoError(t, err)
	c2, err := straight(k, args)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, c1, c2)
}

func TestCacheMissOnDifferentArgs(t *testing.T) {
	k := kcl.New(memory.NewLayout(0.001))
	cache := pcell.NewCache(8)
	calls := 0
	factory := func(k *kcl.KCLayout, args pcell.Args) (*cell.Cell, error) {
		calls++
		return k.CreateCell(pcell.NameFor("straight", args))
	}
	straight := pcell.Cell(factory, pcell.Options{Cache: cache, ComponentType: "straight"})

	_, err := straight(k, pcell.Args{"length": pcell.Val(kvalue.Float(10))})
	require.NoError(t, err)
	_, err = straight(k, pcell.Args{"length": pcell.Val(kvalue.Float(20))})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestResultIsLocked(t *testing.T) {
	k := kcl.New(memory.NewLayout(0.001))
	cache := pcell.NewCache(8)
	factory := func(k *kcl.KCLayout, args pcell.Args) (*cell.Cell, error) {
		return k.CreateCell(pcell.NameFor("straight", args))
	}
	straight := pcell.Cell(factory, pcell.Options{Cache: cache, ComponentType: "straight"})

	c, err := straight(k, pcell.Args{"length": pcell.Val(kvalue.Float(10))})
	require.NoError(t, err)
	assert.True(t, c.Locked())
}

func TestNameForMatchesDict2NameRule(t *testing.T) {
	name := pcell.NameFor("straight", pcell.Args{
		"length": pcell.Val(kvalue.Float(10.5)),
	})
	assert.Equal(t, "straight_L10p5", name)
}
