package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Compare orders two major.minor.patch versions, with or without a leading v.
// Pre-release and build suffixes are ignored. The result is 1 when a is newer, -1 when b is.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		if c := cmp.Compare(av[i], bv[i]); c != 0 {
			return c, nil
		}
	}

	return 0, nil
}

func parse(s string) ([3]int, error) {
	var v [3]int

	trimmed := strings.TrimPrefix(s, "v")
	if i := strings.IndexAny(trimmed, "-+"); i >= 0 {
		trimmed = trimmed[:i]
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) != len(v) {
		return v, fmt.Errorf("version %q is not major.minor.patch", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("version %q: bad number %q", s, part)
		}
		v[i] = n
	}

	return v, nil
}
