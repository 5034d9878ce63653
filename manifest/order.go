package manifest

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// stem returns the file name of a manifest path without directory or extension. Manifest paths
// always use forward slashes.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

type orderKey struct {
	stem    string
	numeric bool
	value   int64
}

func newOrderKey(p string) orderKey {
	s := stem(p)
	v, err := strconv.ParseInt(s, 10, 64)
	return orderKey{stem: s, numeric: err == nil, value: v}
}

// less orders numeric stems by value ahead of all other stems, which are ordered naturally.
func (k orderKey) less(other orderKey) bool {
	switch {
	case k.numeric && other.numeric:
		return k.value < other.value
	case k.numeric != other.numeric:
		return k.numeric
	default:
		return natural.Less(k.stem, other.stem)
	}
}

// CanonicalOrder returns the positions of filePaths sorted by the integer value of their file
// stems, so "2.png" comes before "10.png". The sort is stable.
func CanonicalOrder(filePaths []string) []int {
	keys := make([]orderKey, len(filePaths))
	order := make([]int, len(filePaths))
	for i, p := range filePaths {
		keys[i] = newOrderKey(p)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]].less(keys[order[b]])
	})
	return order
}

// SortNatural sorts names in place comparing digit runs numerically.
func SortNatural(names []string) {
	sort.SliceStable(names, func(a, b int) bool {
		return natural.Less(names[a], names[b])
	})
}
