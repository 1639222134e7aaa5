package domain

import (
	"fmt"
	"strings"
)

// ExpandOrderRange generates the order numbers prefix+n for every n in
// [start, end], without zero padding. An inverted range yields nothing.
func ExpandOrderRange(prefix string, start, end int) []string {
	if end < start {
		return nil
	}
	orders := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		orders = append(orders, fmt.Sprintf("%s%d", prefix, n))
	}
	return orders
}

// ParseLines splits an input file into identifiers, one per line.
// Blank lines and lines starting with '#' are ignored.
func ParseLines(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
