// SPDX-License-Identifier: MIT
// Package xsect implements kfactory's cross-section / enclosure spec: the
// symmetrical width+enclosure description a waveguide or electrical trace
// carries along a route, supplemented from
// original_source/src/kfactory/cross_section.py's SymmetricalCrossSection
// and TCrossSection/CrossSection pair (kept here as one concrete,
// non-generic type since Go has no TYPE_CHECKING-only generic variant
// split; all dimensions are stored in dbu and New is the one constructor).
package xsect

import (
	"fmt"
	"strconv"

	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/layer"
)

// Section describes one enclosure layer offset from the main layer:
// (layer, inner_offset, outer_offset) in dbu.
type Section struct {
	Layer             layer.Index
	InnerOffset, OuterOffset int64
}

// BboxSection describes a per-layer bbox extension margin.
type BboxSection struct {
	Layer                  layer.Index
	Left, Bottom, Right, Top int64
}

// Spec is the construction-time description of a cross-section, as passed
// to kcl.KCLayout.GetCrossSection.
type Spec struct {
	Name         string
	MainLayer    layer.Index
	Width        int64 // dbu, must be a positive even number (symmetry requirement)
	Sections     []Section
	BboxSections []BboxSection
	Radius       *int64
	RadiusMin    *int64
}

// CrossSection is the frozen, validated result of a Spec: width must be a
// positive multiple of 2 dbu (so extrusions stay symmetrical around the
// centerline), matching cross_section.py's _validate_enclosure_main_layer
// / _validate_width checks.
type CrossSection struct {
	Name         string
	MainLayer    layer.Index
	Width        int64
	Sections     []Section
	BboxSections []BboxSection
	Radius       *int64
	RadiusMin    *int64
}

// New validates spec and returns a frozen CrossSection.
func New(name string, spec Spec) (*CrossSection, error) {
	if spec.Width <= 0 {
		return nil, fmt.Errorf("cross-section %q: %w", name, kerrors.ErrInvalidWidth)
	}
	if (spec.Width/2)*2 != spec.Width {
		return nil, fmt.Errorf("cross-section %q: width %d is not a multiple of 2 dbu", name, spec.Width)
	}
	return &CrossSection{
		Name: name, MainLayer: spec.MainLayer, Width: spec.Width,
		Sections: spec.Sections, BboxSections: spec.BboxSections,
		Radius: spec.Radius, RadiusMin: spec.RadiusMin,
	}, nil
}

// SynthesizeName produces the deterministic "{enclosure}_{width}"-style
// name used when a Spec omits Name, mirroring cross_section.py's default
// `f"{enclosure.name}_{width}"` construction. Since this Go port has no
// separate named LayerEnclosure type, the "enclosure" component is
// synthesized from the main layer index instead.
func SynthesizeName(spec Spec) string {
	return "xs_l" + strconv.Itoa(int(spec.MainLayer)) + "_" + strconv.FormatInt(spec.Width, 10)
}

// Xmax returns the maximum outward extent from the centerline across all
// enclosure sections, i.e. width/2 + max(outer offsets).
func (c *CrossSection) Xmax() int64 {
	max := c.Width / 2
	for _, s := range c.Sections {
		if c.Width/2+s.OuterOffset > max {
			max = c.Width/2 + s.OuterOffset
		}
	}
	return max
}
