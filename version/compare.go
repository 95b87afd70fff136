package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare compares two major.minor.patch versions, with or without a leading v.
// Returns 1 if a > b, -1 if a < b, and 0 if equal.
func Compare(a, b string) (int, error) {
	parse := func(s string) (lo.Tuple3[int, int, int], error) {
		var v lo.Tuple3[int, int, int]
		_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v.A, &v.B, &v.C)
		if err != nil {
			return v, fmt.Errorf("version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range [][2]int{{av.A, bv.A}, {av.B, bv.B}, {av.C, bv.C}} {
		switch {
		case pair[0] > pair[1]:
			return 1, nil
		case pair[0] < pair[1]:
			return -1, nil
		}
	}

	return 0, nil
}
