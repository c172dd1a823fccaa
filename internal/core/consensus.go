package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dkeye/Pointing/internal/domain"
)

// Consensus returns every numeric value that reached the highest vote count
// among participants who can vote, sorted ascending. Ties yield several
// values; no countable votes yield an empty slice.
func Consensus(votes map[string]string, roles map[string]domain.Role) []float64 {
	freq := make(map[float64]int)
	for name, point := range votes {
		if !roles[name].CanVote() {
			continue
		}
		v, ok := numericPoint(point)
		if !ok {
			continue
		}
		freq[v]++
	}

	best := 0
	for _, n := range freq {
		best = max(best, n)
	}
	out := make([]float64, 0, len(freq))
	for v, n := range freq {
		if n == best {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// decimalPoint matches plain decimal card values. Hex floats, exponents,
// NaN and Inf are labels, not numbers.
var decimalPoint = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

func numericPoint(point string) (float64, bool) {
	point = strings.TrimSpace(point)
	if !decimalPoint.MatchString(point) {
		return 0, false
	}
	v, err := strconv.ParseFloat(point, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
