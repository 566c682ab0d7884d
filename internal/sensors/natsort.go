package sensors

import "sort"

// Compare is a natural-order comparison over sensor paths: maximal runs of
// decimal digits compare by numeric value, everything else by code point.
// So "temp2" sorts before "temp10", and "fan007" compares equal to "fan7"
// through the digit run (any remaining suffix decides). At a position where
// one side has a digit and the other does not, the digit side sorts first.
// Returns -1, 0 or 1. Never fails; digit runs are assumed to fit in uint64
// (sensor indices are small).
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		da, db := isDigit(ca), isDigit(cb)
		switch {
		case da && db:
			na, ni := digitRun(a, i)
			nb, nj := digitRun(b, j)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			// Equal numeric value; widths may differ ("007" vs "7").
			i, j = ni, nj
		case da:
			return -1
		case db:
			return 1
		default:
			if ca != cb {
				if ca < cb {
					return -1
				}
				return 1
			}
			i++
			j++
		}
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

// Less adapts Compare for use as a sort predicate.
func Less(a, b string) bool { return Compare(a, b) < 0 }

// SortPaths sorts paths in place into natural order.
func SortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool { return Less(paths[i], paths[j]) })
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitRun consumes the maximal run of digits starting at i and returns its
// numeric value together with the position just past the run.
func digitRun(s string, i int) (uint64, int) {
	var n uint64
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + uint64(s[i]-'0')
		i++
	}
	return n, i
}
