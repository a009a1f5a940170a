// SPDX-License-Identifier: MIT
package pcell

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kfactory-go/kfactory/kvalue"
)

// dict2name ports original_source/src/kfactory/kcell.py's dict2name: build
// a deterministic name from a prefix plus a settings map, one
// "KEY<cleaned value>" segment per entry joined by "_", keys sorted for
// determinism (the original relies on Python's insertion-ordered kwargs;
// Go map iteration is unordered, so this port sorts by key instead — a
// deliberate, spec-compatible deviation since the rule only requires
// stability, not insertion-order fidelity).
func dict2name(prefix string, args map[string]kvalue.Value) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	label := make([]string, 0, len(keys)+1)
	if prefix != "" {
		label = append(label, prefix)
	}
	for _, k := range keys {
		seg := strings.ToUpper(joinFirstLetters(k)) + cleanValue(args[k])
		label = append(label, seg)
	}
	return cleanName(strings.Join(label, "_"))
}

// joinFirstLetters joins the first letter of each underscore-separated
// word ("taper_length" -> "TL"), per kcell.py's join_first_letters.
func joinFirstLetters(name string) string {
	var out strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part != "" {
			out.WriteByte(part[0])
		}
	}
	return out.String()
}

// cleanValue renders a settings value into its name-safe textual form,
// porting kcell.py's clean_value: integers print as-is; floats below 1
// are not special-cased further here (that nm-vs-um decision belongs to
// the caller, since this port has no implicit float-is-microns
// convention) but otherwise render as %.4f with trailing zeros and the
// trailing '.' stripped; lists/maps recurse; geometry values use their
// String().
func cleanValue(v kvalue.Value) string {
	switch v.Kind {
	case kvalue.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case kvalue.KindFloat:
		s := fmt.Sprintf("%.4f", v.Float)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		return cleanName(s)
	case kvalue.KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = cleanValue(e)
		}
		return strings.Join(parts, "_")
	case kvalue.KindMap:
		sub := make(map[string]kvalue.Value, len(v.Map))
		for k, e := range v.Map {
			sub[k] = e
		}
		return dict2name("", sub)
	default:
		return cleanName(v.String())
	}
}

// cleanName ports kcell.py's clean_name: replaces characters GDS cell
// names cannot carry with a fixed substitution table.
func cleanName(name string) string {
	replacer := strings.NewReplacer(
		"=", "",
		",", "_",
		")", "",
		"(", "",
		"-", "m",
		".", "p",
		":", "_",
		"[", "",
		"]", "",
		" ", "_",
	)
	return replacer.Replace(name)
}

// componentName ports kcell.py's get_component_name: "{type}_{dict2name}".
func componentName(componentType string, args map[string]kvalue.Value) string {
	if len(args) == 0 {
		return componentType
	}
	return componentType + "_" + dict2name("", args)
}
