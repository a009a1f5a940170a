// SPDX-License-Identifier: MIT
// Package kerrors collects the sentinel errors shared across kfactory's
// packages.
//
// Error policy (strict, matching every sub-package):
//   - Only sentinel variables are exposed; callers branch with errors.Is.
//   - Sentinels are never wrapped with formatted strings at definition site;
//     callers attach context with fmt.Errorf("...: %w", Err) at the call
//     boundary.
//   - Algorithms never panic on user-triggered conditions. Panics are
//     reserved for programmer error inside option constructors.
package kerrors

import (
	"errors"
	"strconv"
)

var (
	// ErrDuplicateName indicates a cell or port name collision without
	// allow-duplicate semantics in effect.
	ErrDuplicateName = errors.New("kfactory: duplicate name")

	// ErrFrozen indicates a mutation was attempted on a locked cell.
	ErrFrozen = errors.New("kfactory: cell is locked")

	// ErrPortWidthMismatch is returned by Instance.Connect when the two
	// ports' widths differ and width mismatches are not explicitly allowed.
	ErrPortWidthMismatch = errors.New("kfactory: port width mismatch")

	// ErrPortLayerMismatch is returned by Instance.Connect when the two
	// ports' layers differ and layer mismatches are not explicitly allowed.
	ErrPortLayerMismatch = errors.New("kfactory: port layer mismatch")

	// ErrPortTypeMismatch is returned by Instance.Connect when the two
	// ports' port_type strings differ and type mismatches are not
	// explicitly allowed.
	ErrPortTypeMismatch = errors.New("kfactory: port type mismatch")

	// ErrNegativeGeometry marks a negative length or width supplied to a
	// component factory. Callers that auto-flip on this condition should
	// still log a critical message before recovering.
	ErrNegativeGeometry = errors.New("kfactory: negative geometry value")

	// ErrPlacerFailed indicates a placer function could not realize a
	// backbone (e.g. rail separation too large for the requested width).
	ErrPlacerFailed = errors.New("kfactory: placer failed")

	// ErrRoutingCollision is raised after collision-report generation when
	// the bundle's on_collision policy is "error" or "show_error".
	ErrRoutingCollision = errors.New("kfactory: routing collision detected")

	// ErrBackendReadVersionTooOld marks a read from a backend file whose
	// embedded metadata predates LayoutMetaInfo support. backend/memory's
	// Read returns it, wrapped, for a path that was never written.
	ErrBackendReadVersionTooOld = errors.New("kfactory: backend file predates context-info metadata")

	// ErrCellNotFound indicates a lookup for a cell name or index that is
	// not registered with the KCLayout.
	ErrCellNotFound = errors.New("kfactory: cell not found")

	// ErrPortNotFound indicates a lookup for a port name not present in a
	// Ports collection.
	ErrPortNotFound = errors.New("kfactory: port not found")

	// ErrLayerNotFound indicates a LayerIndex not registered with a
	// layer.Registry.
	ErrLayerNotFound = errors.New("kfactory: layer not registered")

	// ErrInvalidWidth indicates a non-positive port width, violating the
	// width>0 invariant of spec.md §3.
	ErrInvalidWidth = errors.New("kfactory: port width must be positive")

	// ErrBundleLengthMismatch indicates start_ports and end_ports passed to
	// route.Bundle / router.RouteSmart have different lengths.
	ErrBundleLengthMismatch = errors.New("kfactory: start and end port sequences must have equal length")

	// ErrSeparationTooSmall indicates dual-rail placement where
	// separation_rails >= route_width.
	ErrSeparationTooSmall = errors.New("kfactory: rail separation must be smaller than route width")

	// ErrCycle indicates an attempt to instantiate a cell inside itself
	// (directly or transitively), which would make the hierarchy cyclic.
	ErrCycle = errors.New("kfactory: cell hierarchy would become cyclic")
)

// PlacerErrors aggregates per-route placer failures from route.Bundle so
// that one bad route does not prevent the rest of the bundle from being
// reported. It implements error and unwraps to ErrPlacerFailed via errors.Is.
type PlacerErrors struct {
	Errors []error
}

// Error implements the error interface.
func (p *PlacerErrors) Error() string {
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}
	msg := "kfactory: " + strconv.Itoa(len(p.Errors)) + " route(s) failed to place:"
	for _, e := range p.Errors {
		msg += "\n  - " + e.Error()
	}
	return msg
}

// Unwrap allows errors.Is(perrs, ErrPlacerFailed) to succeed whenever at
// least one aggregated error wraps ErrPlacerFailed.
func (p *PlacerErrors) Unwrap() []error {
	return p.Errors
}
