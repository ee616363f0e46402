package publish

import (
	"regexp"
	"strconv"
)

// NextAvailable scans a remote file listing and returns the first unused
// slot in the prefix+N+extension naming convention. Names must match the
// whole pattern; "w10.html.bak" or "draft-w1.html" never count. A nil or
// empty listing yields prefix+"1"+extension, so callers can feed a failed
// listing straight through as "empty".
//
// The result is only as fresh as the listing: a concurrent writer working
// from the same snapshot can allocate the same slot.
func NextAvailable(prefix, extension string, existing []string) string {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+)` + regexp.QuoteMeta(extension) + `$`)

	maxN := 0
	for _, name := range existing {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxN {
			maxN = n
		}
	}

	return prefix + strconv.Itoa(maxN+1) + extension
}
