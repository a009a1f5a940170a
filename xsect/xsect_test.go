package xsect_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/xsect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsOddWidth(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	_, err := xsect.New("wg", xsect.Spec{MainLayer: idx, Width: 501})
	assert.Error(t, err)
}

func TestNewAcceptsEvenWidth(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	xs, err := xsect.New("wg", xsect.Spec{MainLayer: idx, Width: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(500), xs.Width)
}

func TestSynthesizeNameIsDeterministic(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	spec := xsect.Spec{MainLayer: idx, Width: 500}
	assert.Equal(t, xsect.SynthesizeName(spec), xsect.SynthesizeName(spec))
}

func TestXmaxAccountsForSections(t *testing.T) {
	reg := layer.NewRegistry()
	idx := reg.Layer(1, 0)
	clad := reg.Layer(2, 0)
	xs, err := xsect.New("wg", xsect.Spec{
		MainLayer: idx, Width: 500,
		Sections: []xsect.Section{{Layer: clad, InnerOffset: 0, OuterOffset: 2000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2250), xs.Xmax())
}
