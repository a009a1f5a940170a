// SPDX-License-Identifier: MIT
package cell

import (
	"sort"
	"strconv"

	"github.com/kfactory-go/kfactory/port"
)

// RenameFunc renames every port in ports in place.
type RenameFunc func(ports *port.Collection) error

// ClockwiseRename implements spec.md §4.6's port-naming rule: group ports
// by transform angle bucket (0:E, 1:N, 2:W, 3:S), sort within each bucket,
// concatenate E,N,W,S, and rename sequentially o1, o2, ….
//
// Per-bucket tiebreak (this is the resolved form of the bucket tiebreak
// Open Question, fixed for downstream script stability):
//
//	E: descending y, then ascending x
//	N: ascending x, then descending y
//	W: ascending y, then descending x
//	S: descending x, then ascending y
func ClockwiseRename(ports *port.Collection) error {
	all := ports.All()
	buckets := [4][]port.Port{}
	for _, p := range all {
		a := p.Trans().Angle % 4
		if a < 0 {
			a += 4
		}
		buckets[a] = append(buckets[a], p)
	}

	less := func(bucket int) func(i, j int) bool {
		return func(i, j int) bool {
			ti, tj := buckets[bucket][i].Trans(), buckets[bucket][j].Trans()
			switch bucket {
			case 0: // E
				if ti.DY != tj.DY {
					return ti.DY > tj.DY
				}
				return ti.DX < tj.DX
			case 1: // N
				if ti.DX != tj.DX {
					return ti.DX < tj.DX
				}
				return ti.DY > tj.DY
			case 2: // W
				if ti.DY != tj.DY {
					return ti.DY < tj.DY
				}
				return ti.DX > tj.DX
			default: // S
				if ti.DX != tj.DX {
					return ti.DX > tj.DX
				}
				return ti.DY < tj.DY
			}
		}
	}
	for b := 0; b < 4; b++ {
		sort.SliceStable(buckets[b], less(b))
	}

	ordered := make([]port.Port, 0, len(all))
	for b := 0; b < 4; b++ {
		ordered = append(ordered, buckets[b]...)
	}

	// Rename by position: first strip to placeholder names to avoid
	// transient collisions with the final numbering, then assign o1..oN.
	byPos := make(map[string]int, len(all))
	for i, p := range all {
		byPos[p.Name()] = i
	}
	newNames := make([]string, len(all))
	for seq, p := range ordered {
		newNames[byPos[p.Name()]] = sequentialName(seq + 1)
	}
	for i, name := range newNames {
		if err := ports.Rename(i, "$tmp$"+name); err != nil {
			return err
		}
	}
	for i := range newNames {
		if err := ports.Rename(i, newNames[i]); err != nil {
			return err
		}
	}
	return nil
}

func sequentialName(n int) string {
	return "o" + strconv.Itoa(n)
}
